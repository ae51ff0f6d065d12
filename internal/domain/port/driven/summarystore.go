package driven

import "context"

// SummaryStore defines the driven port for the natural-language summary cache.
// Keys are ChangeGroup ids, which are stable across runs over unchanged
// repository state.
type SummaryStore interface {
	// Get returns the cached summary for the key, or ("", nil) when absent.
	Get(ctx context.Context, groupID string) (string, error)
	Set(ctx context.Context, groupID, summary string) error
	// Clear removes all cached summaries.
	Clear(ctx context.Context) error
}
