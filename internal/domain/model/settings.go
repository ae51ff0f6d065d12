package model

// SortOrder controls how the final change sequence is presented. The engine
// always emits groups newest-first; the presentation layer reverses for
// SortOldestFirst.
type SortOrder string

const (
	SortNewestFirst SortOrder = "newest_first"
	SortOldestFirst SortOrder = "oldest_first"
)

// Valid reports whether the value is one of the two known sort orders.
func (s SortOrder) Valid() bool {
	return s == SortNewestFirst || s == SortOldestFirst
}
