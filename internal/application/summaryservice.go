package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// ErrSummariesDisabled is returned when no summarizer is configured.
var ErrSummariesDisabled = errors.New("summaries are disabled")

// ErrGroupNotFound is returned when a requested group id does not exist in the
// current review window.
var ErrGroupNotFound = errors.New("change group not found")

// SummaryService produces and caches natural-language summaries of merged
// diffs. The cache is keyed by group id, which the grouper keeps stable across
// runs over unchanged repository state.
type SummaryService struct {
	changes    *ChangeService
	store      driven.SummaryStore
	summarizer driven.Summarizer // nil when summaries are disabled.
	logger     *slog.Logger
}

// NewSummaryService creates a SummaryService. summarizer may be nil, in which
// case cache misses return ErrSummariesDisabled.
func NewSummaryService(changes *ChangeService, store driven.SummaryStore, summarizer driven.Summarizer, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		changes:    changes,
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Enabled reports whether a summarizer is configured.
func (s *SummaryService) Enabled() bool {
	return s.summarizer != nil
}

// Cached returns the cached summary for a group id, or "" when absent.
func (s *SummaryService) Cached(ctx context.Context, groupID string) (string, error) {
	return s.store.Get(ctx, groupID)
}

// Summarize returns the summary for a group id, generating and caching it on a
// miss. since bounds the review window the group id is resolved against.
func (s *SummaryService) Summarize(ctx context.Context, groupID string, since time.Time) (string, error) {
	cached, err := s.store.Get(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("read summary cache for %s: %w", groupID, err)
	}
	if cached != "" {
		return cached, nil
	}

	if s.summarizer == nil {
		return "", ErrSummariesDisabled
	}

	groups, err := s.changes.Groups(ctx, since)
	if err != nil {
		return "", err
	}

	for _, group := range groups {
		if group.GroupID != groupID {
			continue
		}

		details, err := s.changes.Details(ctx, []model.ChangeGroup{group})
		if err != nil {
			return "", err
		}

		summary, err := s.summarizer.Summarize(ctx, details[0].DiffText)
		if err != nil {
			return "", fmt.Errorf("summarize %s: %w", groupID, err)
		}

		if err := s.store.Set(ctx, groupID, summary); err != nil {
			// A cache write failure only costs a regeneration next time.
			s.logger.Warn("failed to cache summary", "group_id", groupID, "error", err)
		}
		return summary, nil
	}

	return "", ErrGroupNotFound
}

// Clear drops all cached summaries.
func (s *SummaryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
