package httphandler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/ericfisherdev/wikireview/internal/adapter/driving/web"
	"github.com/ericfisherdev/wikireview/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ChangeResponse is the JSON representation of one reviewable change group
// with its reconstructed diffs and rendered HTML views.
type ChangeResponse struct {
	GroupID      string   `json:"group_id"`
	FilePath     string   `json:"file_path"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	NewestCommit string   `json:"newest_commit"`
	OldestCommit string   `json:"oldest_commit"`
	NewestDate   string   `json:"newest_date"`
	OldestDate   string   `json:"oldest_date"`
	Subjects     []string `json:"subjects"`
	Commits      []string `json:"commits"`

	DiffText      string `json:"diff_text"`
	SplitDiffText string `json:"split_diff_text"`
	RenderedDiff  string `json:"rendered_diff"`  // Inline markdown diff HTML.
	RenderedFinal string `json:"rendered_final"` // Head content as HTML.

	Summary string `json:"summary"` // Cached summary; empty when not cached yet.
}

// ChangesResponse is the JSON body of the change listing endpoint.
type ChangesResponse struct {
	Since            string           `json:"since"`
	WeeksBack        int              `json:"weeks_back"`
	SortOrder        string           `json:"sort_order"`
	SummariesEnabled bool             `json:"summaries_enabled"`
	Changes          []ChangeResponse `json:"changes"`
}

// SummaryResponse is the JSON body of the summary endpoint.
type SummaryResponse struct {
	GroupID string `json:"group_id"`
	Summary string `json:"summary"`
}

// SortOrderRequest is the JSON body for the sort order endpoint.
type SortOrderRequest struct {
	SortOrder string `json:"sort_order"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toChangeResponse converts a ChangeDetail to its JSON representation,
// rendering the markdown and inline-diff HTML views as it goes.
func toChangeResponse(d model.ChangeDetail, summary string) ChangeResponse {
	return ChangeResponse{
		GroupID:       d.Group.GroupID,
		FilePath:      d.Group.FilePath,
		Title:         titleForPath(d.Group.FilePath),
		Author:        d.Group.Author,
		NewestCommit:  d.Group.NewestCommit,
		OldestCommit:  d.Group.OldestCommit,
		NewestDate:    d.Group.NewestDate.Format(time.RFC3339),
		OldestDate:    d.Group.OldestDate.Format(time.RFC3339),
		Subjects:      d.Group.Subjects,
		Commits:       d.Group.Commits,
		DiffText:      d.DiffText,
		SplitDiffText: d.SplitDiffText,
		RenderedDiff:  web.RenderInlineDiff(d.BaseContent, d.HeadContent),
		RenderedFinal: web.RenderMarkdown(d.HeadContent),
		Summary:       summary,
	}
}

// titleForPath derives a display title from a document path: the base name,
// URL-unescaped because wiki exports percent-encode spaces in file names.
func titleForPath(filePath string) string {
	name := path.Base(filePath)
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
