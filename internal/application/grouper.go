package application

import (
	"strings"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
)

// DocumentMatcher decides whether a touched path is a reviewable document.
type DocumentMatcher func(path string) bool

// ExtensionMatcher returns a DocumentMatcher that accepts paths ending in any
// of the given extensions, case-insensitively.
func ExtensionMatcher(extensions []string) DocumentMatcher {
	lowered := make([]string, len(extensions))
	for i, ext := range extensions {
		lowered[i] = strings.ToLower(ext)
	}
	return func(path string) bool {
		p := strings.ToLower(path)
		for _, ext := range lowered {
			if strings.HasSuffix(p, ext) {
				return true
			}
		}
		return false
	}
}

// BuildChangeEntries expands commits into one ChangeEntry per (commit, touched
// file) pair that is a document and is not excluded by the path rules. Commits
// are walked in input order and files in their original order; a file touched
// by two commits yields two entries.
func BuildChangeEntries(commits []model.CommitRecord, isDoc DocumentMatcher, rules []string, prefix string) []model.ChangeEntry {
	var entries []model.ChangeEntry
	for _, commit := range commits {
		for _, filePath := range commit.Files {
			if !isDoc(filePath) {
				continue
			}
			if IsExcluded(filePath, rules, prefix) {
				continue
			}
			entries = append(entries, model.ChangeEntry{
				Commit:   commit.Commit,
				Author:   commit.Author,
				Date:     commit.Date,
				Subject:  commit.Subject,
				FilePath: filePath,
			})
		}
	}
	return entries
}

// groupKey is the compound key a group is opened under.
type groupKey struct {
	author   string
	filePath string
}

// GroupChanges folds entries into groups keyed by (author, file path). Two
// entries for the same key merge into one group even when entries for other
// keys sit between them. Groups come out in first-seen order.
//
// Entries arrive newest-first from the log, so the first entry fixes the
// group's newest commit (and its id) and every later entry overwrites the
// oldest commit. An ordered slice plus a key->position index keeps output
// ordering independent of map iteration order.
func GroupChanges(entries []model.ChangeEntry) []model.ChangeGroup {
	var groups []*model.ChangeGroup
	index := make(map[groupKey]int)

	for _, entry := range entries {
		key := groupKey{author: entry.Author, filePath: entry.FilePath}
		if pos, ok := index[key]; ok {
			groups[pos].Extend(entry)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, model.NewChangeGroup(entry))
	}

	out := make([]model.ChangeGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}
