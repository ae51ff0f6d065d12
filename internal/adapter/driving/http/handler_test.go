package httphandler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/wikireview/internal/application"
	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

type fakeGateway struct {
	log     string
	files   map[string]string
	diffs   map[string]string
	parents map[string]string
	syncOut string
	syncErr error
}

func (g *fakeGateway) Log(_ context.Context, _ time.Time) (string, error) {
	return g.log, nil
}

func (g *fakeGateway) ShowFile(_ context.Context, ref, path string) (string, error) {
	content, ok := g.files[ref+":"+path]
	if !ok {
		return "", fmt.Errorf("show %s:%s: %w", ref, path, driven.ErrNotFound)
	}
	return content, nil
}

func (g *fakeGateway) DiffBetween(_ context.Context, baseRef, headRef, path string) (string, error) {
	return g.diffs[baseRef+".."+headRef+":"+path], nil
}

func (g *fakeGateway) CommitPatch(_ context.Context, commit string) (string, error) {
	return "", fmt.Errorf("patch %s: %w", commit, driven.ErrNotFound)
}

func (g *fakeGateway) ResolveParent(_ context.Context, commit string) (string, error) {
	parent, ok := g.parents[commit]
	if !ok {
		return "", fmt.Errorf("parent of %s: %w", commit, driven.ErrNotFound)
	}
	return parent, nil
}

func (g *fakeGateway) EmptyTreeRef(_ context.Context) (string, error) { return "emptytree", nil }

func (g *fakeGateway) RepoPrefix(_ context.Context) (string, error) { return "", nil }

func (g *fakeGateway) Sync(_ context.Context) (string, error) { return g.syncOut, g.syncErr }

type fakeSettings struct {
	lastReviewed time.Time
	sortOrder    model.SortOrder
}

func (s *fakeSettings) GetLastReviewed(_ context.Context) (time.Time, error) {
	return s.lastReviewed, nil
}

func (s *fakeSettings) SetLastReviewed(_ context.Context, t time.Time) error {
	s.lastReviewed = t
	return nil
}

func (s *fakeSettings) GetSortOrder(_ context.Context) (model.SortOrder, error) {
	if s.sortOrder == "" {
		return model.SortNewestFirst, nil
	}
	return s.sortOrder, nil
}

func (s *fakeSettings) SetSortOrder(_ context.Context, order model.SortOrder) error {
	s.sortOrder = order
	return nil
}

type fakeSummaryStore struct {
	entries map[string]string
}

func (s *fakeSummaryStore) Get(_ context.Context, groupID string) (string, error) {
	return s.entries[groupID], nil
}

func (s *fakeSummaryStore) Set(_ context.Context, groupID, summary string) error {
	s.entries[groupID] = summary
	return nil
}

func (s *fakeSummaryStore) Clear(_ context.Context) error {
	s.entries = map[string]string{}
	return nil
}

type fakeSummarizer struct{ summary string }

func (s *fakeSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return s.summary, nil
}

// twoDocGateway serves a window with Alice editing docs/install.md twice and
// docs/faq.md once.
func twoDocGateway() *fakeGateway {
	return &fakeGateway{
		log: "==COMMIT==\n" +
			"c1\nAlice\nalice@x.com\n2026-08-22T10:00:00Z\nfix typo\n" +
			"docs/install.md\n" +
			"==COMMIT==\n" +
			"c2\nAlice\nalice@x.com\n2026-08-21T10:00:00Z\nextend faq\n" +
			"docs/faq.md\n" +
			"==COMMIT==\n" +
			"c3\nAlice\nalice@x.com\n2026-08-20T10:00:00Z\nrewrite intro\n" +
			"docs/install.md\n",
		parents: map[string]string{"c2": "p2", "c3": "p3"},
		files: map[string]string{
			"p3:docs/install.md": "# Install\nold\n",
			"c1:docs/install.md": "# Install\nnew\n",
			"p2:docs/faq.md":     "faq old\n",
			"c2:docs/faq.md":     "faq new\n",
		},
		diffs: map[string]string{
			"p3..c1:docs/install.md": "diff --git a/docs/install.md b/docs/install.md\n-old\n+new\n",
			"p2..c2:docs/faq.md":     "diff --git a/docs/faq.md b/docs/faq.md\n-faq old\n+faq new\n",
		},
	}
}

type testEnv struct {
	mux      *http.ServeMux
	gateway  *fakeGateway
	settings *fakeSettings
	store    *fakeSummaryStore
}

func newTestEnv(t *testing.T, summarizer driven.Summarizer) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		mux:      http.NewServeMux(),
		gateway:  twoDocGateway(),
		settings: &fakeSettings{lastReviewed: time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC)},
		store:    &fakeSummaryStore{entries: map[string]string{}},
	}

	changeSvc := application.NewChangeService(env.gateway, nil, []string{".md"}, logger)
	summarySvc := application.NewSummaryService(changeSvc, env.store, summarizer, logger)
	handler := NewHandler(changeSvc, summarySvc, env.settings, "tuesday", "15:00", logger)
	RegisterAPIRoutes(env.mux, handler)
	return env
}

func (e *testEnv) do(method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func TestListChanges(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.entries["docs/install.md|c1"] = "cached summary"

	rec := env.do(http.MethodGet, "/api/v1/changes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChangesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "2026-08-19T15:00:00Z", resp.Since)
	assert.Equal(t, 0, resp.WeeksBack)
	assert.Equal(t, "newest_first", resp.SortOrder)
	assert.False(t, resp.SummariesEnabled)
	require.Len(t, resp.Changes, 2)

	install := resp.Changes[0]
	assert.Equal(t, "docs/install.md|c1", install.GroupID)
	assert.Equal(t, "install.md", install.Title)
	assert.Equal(t, []string{"c1", "c3"}, install.Commits)
	assert.Contains(t, install.DiffText, "+new")
	assert.Contains(t, install.RenderedFinal, "<h1>Install</h1>")
	assert.Equal(t, "cached summary", install.Summary)

	assert.Equal(t, "docs/faq.md|c2", resp.Changes[1].GroupID)
	assert.Empty(t, resp.Changes[1].Summary)
}

func TestListChanges_OldestFirst(t *testing.T) {
	env := newTestEnv(t, nil)
	env.settings.sortOrder = model.SortOldestFirst

	rec := env.do(http.MethodGet, "/api/v1/changes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChangesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Changes, 2)
	assert.Equal(t, "docs/faq.md|c2", resp.Changes[0].GroupID)
	assert.Equal(t, "docs/install.md|c1", resp.Changes[1].GroupID)
}

func TestListChanges_WeeksBackShiftsWindow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/changes?weeks_back=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChangesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-05T15:00:00Z", resp.Since)
	assert.Equal(t, 2, resp.WeeksBack)
}

func TestListChanges_InvalidWeeksBack(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/api/v1/changes?weeks_back=-1", "/api/v1/changes?weeks_back=abc"} {
		rec := env.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetSummary(t *testing.T) {
	env := newTestEnv(t, &fakeSummarizer{summary: "Alice fixed the install guide."})

	// Group ids embed the document path, slashes and all.
	rec := env.do(http.MethodGet, "/api/v1/summaries/docs/install.md|c1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "docs/install.md|c1", resp.GroupID)
	assert.Equal(t, "Alice fixed the install guide.", resp.Summary)
	assert.Equal(t, "Alice fixed the install guide.", env.store.entries["docs/install.md|c1"])
}

func TestGetSummary_Disabled(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/summaries/docs/install.md|c1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSummary_UnknownGroup(t *testing.T) {
	env := newTestEnv(t, &fakeSummarizer{summary: "unused"})

	rec := env.do(http.MethodGet, "/api/v1/summaries/docs/missing.md|c9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearSummaries(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.entries["g1"] = "body"

	rec := env.do(http.MethodDelete, "/api/v1/summaries", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.store.entries)
}

func TestSync(t *testing.T) {
	env := newTestEnv(t, nil)
	env.gateway.syncOut = "Already up to date.\n"

	rec := env.do(http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Already up to date.\n", resp["output"])
}

func TestSync_GatewayFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.gateway.syncErr = fmt.Errorf("pull: %w", driven.ErrGatewayUnavailable)

	rec := env.do(http.MethodPost, "/api/v1/sync", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMarkReviewed(t *testing.T) {
	env := newTestEnv(t, nil)
	before := time.Now()

	rec := env.do(http.MethodPost, "/api/v1/reviewed", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.settings.lastReviewed.Before(before))
}

func TestSetSortOrder(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPut, "/api/v1/sort-order", strings.NewReader(`{"sort_order":"oldest_first"}`))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, model.SortOldestFirst, env.settings.sortOrder)
}

func TestSetSortOrder_Invalid(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPut, "/api/v1/sort-order", strings.NewReader(`{"sort_order":"sideways"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/api/v1/sort-order", strings.NewReader("not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTitleForPath(t *testing.T) {
	assert.Equal(t, "install.md", titleForPath("docs/install.md"))
	assert.Equal(t, "getting started.md", titleForPath("docs/getting%20started.md"))
	assert.Equal(t, "plain.md", titleForPath("plain.md"))
}
