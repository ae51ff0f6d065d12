package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// aggregationFixture is a two-author history where Alice's edits to
// docs/install.md are interleaved with her edit to docs/faq.md.
func aggregationFixture() *stubGateway {
	return &stubGateway{
		log: "==COMMIT==\n" +
			"c1\nAlice\nalice@x.com\n2026-08-22T10:00:00Z\nfix install typo\n" +
			"docs/install.md\n" +
			"==COMMIT==\n" +
			"c2\nAlice\nalice@x.com\n2026-08-21T10:00:00Z\nextend faq\n" +
			"docs/faq.md\n" +
			"build.go\n" +
			"==COMMIT==\n" +
			"c3\nBob\nbob@x.com\n2026-08-20T16:00:00Z\ndraft cleanup\n" +
			"drafts/wip.md\n" +
			"==COMMIT==\n" +
			"c4\nAlice\nalice@x.com\n2026-08-20T10:00:00Z\nrewrite install intro\n" +
			"docs/install.md\n",
		parents: map[string]string{
			"c2": "c1x", "c4": "c3x",
		},
		files: map[string]string{
			"c1:docs/install.md":  "install v2\n",
			"c3x:docs/install.md": "install v0\n",
			"c2:docs/faq.md":      "faq v1\n",
			"c1x:docs/faq.md":     "faq v0\n",
		},
		diffs: map[string]string{
			"c3x..c1:docs/install.md": "diff --git a/docs/install.md b/docs/install.md\n-install v0\n+install v2\n",
			"c1x..c2:docs/faq.md":     "diff --git a/docs/faq.md b/docs/faq.md\n-faq v0\n+faq v1\n",
		},
		patches: map[string]string{
			"c1": "diff --git a/docs/install.md b/docs/install.md\n-install v1\n+install v2\n",
			"c4": "diff --git a/docs/install.md b/docs/install.md\n-install v0\n+install v1\n",
		},
	}
}

func newTestChangeService(gw *stubGateway) *ChangeService {
	return NewChangeService(gw, []string{"drafts/"}, []string{".md"}, testLogger())
}

func TestChangeService_Groups(t *testing.T) {
	svc := newTestChangeService(aggregationFixture())

	groups, err := svc.Groups(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	install := groups[0]
	assert.Equal(t, "docs/install.md|c1", install.GroupID)
	assert.Equal(t, "Alice", install.Author)
	assert.Equal(t, []string{"c1", "c4"}, install.Commits)
	assert.Equal(t, []string{"fix install typo", "rewrite install intro"}, install.Subjects)

	faq := groups[1]
	assert.Equal(t, "docs/faq.md|c2", faq.GroupID)
	assert.Equal(t, []string{"c2"}, faq.Commits)
}

func TestChangeService_Changes(t *testing.T) {
	svc := newTestChangeService(aggregationFixture())

	details, err := svc.Changes(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, details, 2)

	install := details[0]
	assert.Equal(t, "docs/install.md|c1", install.Group.GroupID)
	assert.Contains(t, install.DiffText, "+install v2")
	assert.Equal(t, "install v0\n", install.BaseContent)
	assert.Equal(t, "install v2\n", install.HeadContent)
	// Two commits: split view is the concatenation of both patches.
	assert.Contains(t, install.SplitDiffText, "+install v2")
	assert.Contains(t, install.SplitDiffText, "+install v1")

	faq := details[1]
	assert.Contains(t, faq.DiffText, "+faq v1")
	assert.Equal(t, faq.DiffText, faq.SplitDiffText)
}

func TestChangeService_Idempotent(t *testing.T) {
	svc := newTestChangeService(aggregationFixture())
	since := time.Now().AddDate(0, 0, -7)

	first, err := svc.Changes(context.Background(), since)
	require.NoError(t, err)
	second, err := svc.Changes(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChangeService_StripsRepoPrefixForFilters(t *testing.T) {
	gw := aggregationFixture()
	gw.prefix = "wiki/"
	gw.log = "==COMMIT==\n" +
		"c9\nAlice\nalice@x.com\n2026-08-22T10:00:00Z\ndraft\n" +
		"wiki/drafts/wip.md\n"

	svc := newTestChangeService(gw)
	groups, err := svc.Groups(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestChangeService_EmptyWindow(t *testing.T) {
	svc := newTestChangeService(&stubGateway{})

	details, err := svc.Changes(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestChangeService_Sync(t *testing.T) {
	gw := aggregationFixture()
	gw.syncOut = "Already up to date.\n"
	svc := newTestChangeService(gw)

	out, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Already up to date.\n", out)
}
