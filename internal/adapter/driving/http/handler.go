// Package httphandler implements the HTTP driving adapter serving the REST API.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/ericfisherdev/wikireview/internal/application"
	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter for the review API.
type Handler struct {
	changeSvc  *application.ChangeService
	summarySvc *application.SummaryService
	settings   driven.SettingsStore
	weekday    string
	at         string
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. weekday and at
// configure the default review-window start used when the repository has never
// been marked reviewed.
func NewHandler(
	changeSvc *application.ChangeService,
	summarySvc *application.SummaryService,
	settings driven.SettingsStore,
	weekday, at string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		changeSvc:  changeSvc,
		summarySvc: summarySvc,
		settings:   settings,
		weekday:    weekday,
		at:         at,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers all API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/changes", h.ListChanges)
	// The wildcard keeps group ids routable: they embed the document path,
	// slashes included.
	mux.HandleFunc("GET /api/v1/summaries/{groupID...}", h.GetSummary)
	mux.HandleFunc("DELETE /api/v1/summaries", h.ClearSummaries)
	mux.HandleFunc("POST /api/v1/sync", h.Sync)
	mux.HandleFunc("POST /api/v1/reviewed", h.MarkReviewed)
	mux.HandleFunc("PUT /api/v1/sort-order", h.SetSortOrder)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the mux with logging and recovery middleware.
// Recovery sits innermost so panics are caught before the request is logged.
func ApplyMiddleware(mux http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// ListChanges runs a full aggregation pass over the review window and returns
// one card per change group, sorted per the stored sort order.
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	weeksBack, err := weeksBackParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid weeks_back")
		return
	}

	since, err := h.resolveSince(ctx, weeksBack)
	if err != nil {
		h.logger.Error("failed to resolve review window", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	details, err := h.changeSvc.Changes(ctx, since)
	if err != nil {
		h.logger.Error("aggregation pass failed", "since", since, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	order, err := h.settings.GetSortOrder(ctx)
	if err != nil {
		h.logger.Error("failed to load sort order", "error", err)
		order = model.SortNewestFirst
	}

	changes := make([]ChangeResponse, 0, len(details))
	for _, detail := range details {
		summary, err := h.summarySvc.Cached(ctx, detail.Group.GroupID)
		if err != nil {
			h.logger.Warn("failed to read cached summary", "group_id", detail.Group.GroupID, "error", err)
		}
		changes = append(changes, toChangeResponse(detail, summary))
	}

	// The engine emits newest-first; oldest-first is a straight reversal.
	if order == model.SortOldestFirst {
		slices.Reverse(changes)
	}

	writeJSON(w, http.StatusOK, ChangesResponse{
		Since:            since.Format(time.RFC3339),
		WeeksBack:        weeksBack,
		SortOrder:        string(order),
		SummariesEnabled: h.summarySvc.Enabled(),
		Changes:          changes,
	})
}

// GetSummary returns the summary for a group id, generating and caching it on
// a cache miss.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := r.PathValue("groupID")

	weeksBack, err := weeksBackParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid weeks_back")
		return
	}

	since, err := h.resolveSince(ctx, weeksBack)
	if err != nil {
		h.logger.Error("failed to resolve review window", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	summary, err := h.summarySvc.Summarize(ctx, groupID, since)
	switch {
	case errors.Is(err, application.ErrSummariesDisabled):
		writeError(w, http.StatusConflict, "summaries are disabled")
		return
	case errors.Is(err, application.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "change group not found")
		return
	case err != nil:
		h.logger.Error("failed to summarize", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{GroupID: groupID, Summary: summary})
}

// ClearSummaries drops all cached summaries.
func (h *Handler) ClearSummaries(w http.ResponseWriter, r *http.Request) {
	if err := h.summarySvc.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear summaries", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync pulls the remote into the working copy. The pull completes before this
// handler returns, so a subsequent listing never interleaves with it.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	out, err := h.changeSvc.Sync(r.Context())
	if err != nil {
		h.logger.Error("sync failed", "error", err)
		writeError(w, http.StatusBadGateway, "sync failed")
		return
	}

	h.logger.Info("working copy synced")
	writeJSON(w, http.StatusOK, map[string]string{"output": out})
}

// MarkReviewed moves the review-window start to now.
func (h *Handler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.SetLastReviewed(r.Context(), time.Now()); err != nil {
		h.logger.Error("failed to mark reviewed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSortOrder stores the presentation order preference.
func (h *Handler) SetSortOrder(w http.ResponseWriter, r *http.Request) {
	var req SortOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order := model.SortOrder(req.SortOrder)
	if !order.Valid() {
		writeError(w, http.StatusBadRequest, "invalid sort_order")
		return
	}

	if err := h.settings.SetSortOrder(r.Context(), order); err != nil {
		h.logger.Error("failed to set sort order", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveSince computes the review-window start: the stored last-reviewed
// timestamp (or the configured weekday/time default when never reviewed),
// pushed back by weeksBack weeks.
func (h *Handler) resolveSince(ctx context.Context, weeksBack int) (time.Time, error) {
	since, err := h.settings.GetLastReviewed(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if since.IsZero() {
		since, err = application.DefaultSince(h.weekday, h.at, time.Now())
		if err != nil {
			return time.Time{}, err
		}
	}
	return since.AddDate(0, 0, -7*weeksBack), nil
}

// weeksBackParam parses the optional weeks_back query parameter.
func weeksBackParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("weeks_back")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("weeks_back must be a non-negative integer")
	}
	return n, nil
}
