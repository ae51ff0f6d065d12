package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SummaryStore = (*SummaryRepo)(nil)

// SummaryRepo is the SQLite implementation of the SummaryStore port. Rows are
// keyed by change group id, which stays stable across runs over unchanged
// repository state, so entries survive restarts until explicitly cleared.
type SummaryRepo struct {
	db *DB
}

// NewSummaryRepo creates a SummaryRepo backed by the given DB.
func NewSummaryRepo(db *DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

// Get returns the cached summary for the group id, or ("", nil) when absent.
func (r *SummaryRepo) Get(ctx context.Context, groupID string) (string, error) {
	const query = `SELECT body FROM summaries WHERE group_id = ?`

	var body string
	err := r.db.Reader.QueryRowContext(ctx, query, groupID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get summary %q: %w", groupID, err)
	}
	return body, nil
}

// Set stores or replaces the summary for the group id.
func (r *SummaryRepo) Set(ctx context.Context, groupID, summary string) error {
	const query = `
		INSERT INTO summaries (group_id, body, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(group_id) DO UPDATE SET
			body = excluded.body,
			created_at = excluded.created_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query, groupID, summary)
	if err != nil {
		return fmt.Errorf("set summary %q: %w", groupID, err)
	}
	return nil
}

// Clear removes all cached summaries.
func (r *SummaryRepo) Clear(ctx context.Context) error {
	const query = `DELETE FROM summaries`

	_, err := r.db.Writer.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("clear summaries: %w", err)
	}
	return nil
}
