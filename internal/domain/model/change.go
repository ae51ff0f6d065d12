package model

import "time"

// GroupIDSeparator joins the file path and newest commit hash into a group id.
// The id doubles as the summary cache key, so it must stay stable across runs
// over unchanged repository state.
const GroupIDSeparator = "|"

// ChangeEntry is one (commit, touched file) pair that survived the document
// and path filters. Entries are ephemeral; they exist only to be folded into
// ChangeGroups.
type ChangeEntry struct {
	Commit   string
	Author   string
	Date     time.Time
	Subject  string
	FilePath string
}

// ChangeGroup is the unit of review: all in-window changes to one document by
// one author, merged even when interleaved with work on other documents.
//
// Commits and Subjects are parallel lists: index i of Commits corresponds to
// index i of Subjects. Entries arrive newest-first, so NewestCommit is fixed at
// creation and OldestCommit tracks the last entry appended.
type ChangeGroup struct {
	GroupID      string
	FilePath     string
	Author       string
	NewestCommit string
	OldestCommit string
	NewestDate   time.Time
	OldestDate   time.Time
	Subjects     []string
	Commits      []string
}

// NewChangeGroup opens a group for the given entry. The group id is derived
// from the file path and the newest (first-seen) commit and never recomputed.
func NewChangeGroup(e ChangeEntry) *ChangeGroup {
	return &ChangeGroup{
		GroupID:      e.FilePath + GroupIDSeparator + e.Commit,
		FilePath:     e.FilePath,
		Author:       e.Author,
		NewestCommit: e.Commit,
		OldestCommit: e.Commit,
		NewestDate:   e.Date,
		OldestDate:   e.Date,
		Subjects:     []string{e.Subject},
		Commits:      []string{e.Commit},
	}
}

// Extend merges a chronologically older entry for the same (author, path) key
// into the group.
func (g *ChangeGroup) Extend(e ChangeEntry) {
	g.OldestCommit = e.Commit
	g.OldestDate = e.Date
	g.Subjects = append(g.Subjects, e.Subject)
	g.Commits = append(g.Commits, e.Commit)
}

// ChangeDetail is a ChangeGroup plus the reconstructed diff views and the
// document content at both ends of the review window. Read-only once built.
type ChangeDetail struct {
	Group         ChangeGroup
	DiffText      string // Merged diff (base -> head).
	SplitDiffText string // Per-commit patches, concatenated.
	BaseContent   string // Empty when the document did not exist at base.
	HeadContent   string // Empty when the document was deleted by head.
}
