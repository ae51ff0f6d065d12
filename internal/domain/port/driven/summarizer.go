package driven

import "context"

// Summarizer defines the driven port for the external summarization call.
type Summarizer interface {
	// Summarize produces a short natural-language summary of a unified diff.
	Summarize(ctx context.Context, diffText string) (string, error)
}
