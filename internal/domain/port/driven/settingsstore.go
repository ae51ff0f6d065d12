package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
)

// SettingsStore defines the driven port for persisted review state.
type SettingsStore interface {
	// GetLastReviewed returns the start of the review window, or the zero time
	// when the repository has never been marked reviewed.
	GetLastReviewed(ctx context.Context) (time.Time, error)
	SetLastReviewed(ctx context.Context, t time.Time) error

	// GetSortOrder returns the stored presentation order, defaulting to
	// newest-first when unset.
	GetSortOrder(ctx context.Context) (model.SortOrder, error)
	SetSortOrder(ctx context.Context, order model.SortOrder) error
}
