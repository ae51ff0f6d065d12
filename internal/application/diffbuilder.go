package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// fileDiffDelimiter introduces a per-file block inside a full commit patch.
const fileDiffDelimiter = "diff --git "

// DiffBuilder reconstructs the textual delta of a ChangeGroup: the document
// content at base and head, a merged diff between them, and a split
// (per-commit) diff.
type DiffBuilder struct {
	gateway driven.GitGateway
}

// NewDiffBuilder creates a DiffBuilder over the given gateway.
func NewDiffBuilder(gateway driven.GitGateway) *DiffBuilder {
	return &DiffBuilder{gateway: gateway}
}

// mergedDiffStrategy is one step in the merged-diff fallback chain. It returns
// "" when it produced nothing usable, letting the next strategy run.
type mergedDiffStrategy func(ctx context.Context, group model.ChangeGroup, baseRef string, baseContent, headContent string) (string, error)

// BuildDetail resolves the group's base reference and content, then runs the
// merged-diff strategy chain and assembles the split diff.
//
// A ref or path missing at any single step degrades that field to empty text;
// only an unavailable gateway or a failed base resolution aborts.
func (b *DiffBuilder) BuildDetail(ctx context.Context, group model.ChangeGroup) (model.ChangeDetail, error) {
	baseRef, err := b.resolveBase(ctx, group.OldestCommit)
	if err != nil {
		return model.ChangeDetail{}, fmt.Errorf("resolve base for group %s: %w", group.GroupID, err)
	}

	baseContent, err := b.showFileOrEmpty(ctx, baseRef, group.FilePath)
	if err != nil {
		return model.ChangeDetail{}, err
	}
	headContent, err := b.showFileOrEmpty(ctx, group.NewestCommit, group.FilePath)
	if err != nil {
		return model.ChangeDetail{}, err
	}

	merged, err := b.mergedDiff(ctx, group, baseRef, baseContent, headContent)
	if err != nil {
		return model.ChangeDetail{}, err
	}

	split, err := b.splitDiff(ctx, group, merged)
	if err != nil {
		return model.ChangeDetail{}, err
	}

	return model.ChangeDetail{
		Group:         group,
		DiffText:      merged,
		SplitDiffText: split,
		BaseContent:   baseContent,
		HeadContent:   headContent,
	}, nil
}

// resolveBase returns the parent of the group's oldest commit, or the empty
// tree sentinel when that commit is the root of history.
func (b *DiffBuilder) resolveBase(ctx context.Context, oldestCommit string) (string, error) {
	parent, err := b.gateway.ResolveParent(ctx, oldestCommit)
	if err == nil && parent != "" {
		return parent, nil
	}
	if err != nil && !errors.Is(err, driven.ErrNotFound) {
		return "", err
	}
	return b.gateway.EmptyTreeRef(ctx)
}

// showFileOrEmpty fetches file content at a ref, mapping a missing file to
// empty content. An empty base means the document was created inside the
// window; an empty head means it was deleted.
func (b *DiffBuilder) showFileOrEmpty(ctx context.Context, ref, path string) (string, error) {
	content, err := b.gateway.ShowFile(ctx, ref, path)
	if errors.Is(err, driven.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("show %s at %s: %w", path, ref, err)
	}
	return content, nil
}

// mergedDiff runs the fallback chain in order and returns the first
// non-whitespace result.
func (b *DiffBuilder) mergedDiff(ctx context.Context, group model.ChangeGroup, baseRef, baseContent, headContent string) (string, error) {
	strategies := []mergedDiffStrategy{
		b.rangedDiff,
		b.headCommitPatch,
		b.synthesizedDiff,
	}

	for _, strategy := range strategies {
		diff, err := strategy(ctx, group, baseRef, baseContent, headContent)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(diff) != "" {
			return diff, nil
		}
	}
	return "", nil
}

// rangedDiff asks the gateway for a direct diff between base and head.
func (b *DiffBuilder) rangedDiff(ctx context.Context, group model.ChangeGroup, baseRef, _, _ string) (string, error) {
	diff, err := b.gateway.DiffBetween(ctx, baseRef, group.NewestCommit, group.FilePath)
	if errors.Is(err, driven.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("diff %s..%s for %s: %w", baseRef, group.NewestCommit, group.FilePath, err)
	}
	return diff, nil
}

// headCommitPatch extracts the head commit's own patch for the document. Merge
// commits often produce an empty ranged diff against a synthetic base; their
// per-parent patch still carries the change.
func (b *DiffBuilder) headCommitPatch(ctx context.Context, group model.ChangeGroup, _, _, _ string) (string, error) {
	full, err := b.gateway.CommitPatch(ctx, group.NewestCommit)
	if errors.Is(err, driven.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("patch of %s: %w", group.NewestCommit, err)
	}
	return extractFileDiff(full, group.FilePath), nil
}

// synthesizedDiff is the last resort: build a unified diff directly from the
// two content strings. It guarantees a non-empty diff whenever content
// actually differs, even when git could not express it (renames it did not
// follow, binary-looking input).
func (b *DiffBuilder) synthesizedDiff(_ context.Context, group model.ChangeGroup, _, baseContent, headContent string) (string, error) {
	if baseContent == "" && headContent == "" {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseContent),
		B:        difflib.SplitLines(headContent),
		FromFile: "a/" + group.FilePath,
		ToFile:   "b/" + group.FilePath,
		Context:  3,
	})
	if err != nil {
		return "", nil
	}
	return diff, nil
}

// splitDiff concatenates each commit's isolated patch for the document. Groups
// with a single commit reuse the merged diff. Commits whose patch reduces to
// empty text (a rename with no content change) are skipped.
func (b *DiffBuilder) splitDiff(ctx context.Context, group model.ChangeGroup, merged string) (string, error) {
	if len(group.Commits) <= 1 {
		return merged, nil
	}

	var patches []string
	for _, commit := range group.Commits {
		full, err := b.gateway.CommitPatch(ctx, commit)
		if errors.Is(err, driven.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("patch of %s: %w", commit, err)
		}
		if patch := extractFileDiff(full, group.FilePath); strings.TrimSpace(patch) != "" {
			patches = append(patches, patch)
		}
	}
	return strings.Join(patches, "\n"), nil
}

// extractFileDiff captures the per-file block for path from a full commit
// patch: the "diff --git " line naming the path and every line until the next
// such delimiter. Path separators are normalized before the containment check.
func extractFileDiff(fullDiff, path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	var out strings.Builder
	capturing := false
	for _, line := range strings.SplitAfter(fullDiff, "\n") {
		if strings.HasPrefix(line, fileDiffDelimiter) {
			capturing = strings.Contains(line, normalized)
		}
		if capturing {
			out.WriteString(line)
		}
	}
	return out.String()
}
