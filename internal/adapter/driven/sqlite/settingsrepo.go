package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// Settings keys. Values are stored as text in a single key/value table.
const (
	keyLastReviewed = "last_reviewed"
	keySortOrder    = "sort_order"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingsStore port.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a SettingsRepo backed by the given DB.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetLastReviewed returns the stored review-window start, or the zero time
// when the repository has never been marked reviewed.
func (r *SettingsRepo) GetLastReviewed(ctx context.Context) (time.Time, error) {
	raw, err := r.get(ctx, keyLastReviewed)
	if err != nil || raw == "" {
		return time.Time{}, err
	}

	// Stored with an explicit offset; a naive timestamp here would corrupt
	// review-window boundaries.
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last_reviewed %q: %w", raw, err)
	}
	return t, nil
}

// SetLastReviewed stores the review-window start with its offset.
func (r *SettingsRepo) SetLastReviewed(ctx context.Context, t time.Time) error {
	return r.set(ctx, keyLastReviewed, t.Format(time.RFC3339))
}

// GetSortOrder returns the stored presentation order, defaulting to
// newest-first when unset or unrecognized.
func (r *SettingsRepo) GetSortOrder(ctx context.Context) (model.SortOrder, error) {
	raw, err := r.get(ctx, keySortOrder)
	if err != nil {
		return "", err
	}

	order := model.SortOrder(raw)
	if !order.Valid() {
		return model.SortNewestFirst, nil
	}
	return order, nil
}

// SetSortOrder stores the presentation order. Unknown values are rejected.
func (r *SettingsRepo) SetSortOrder(ctx context.Context, order model.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("invalid sort order %q", order)
	}
	return r.set(ctx, keySortOrder, string(order))
}

func (r *SettingsRepo) get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM settings WHERE key = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (r *SettingsRepo) set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
