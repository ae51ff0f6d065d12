// Package web serves the HTML dashboard and renders markdown/diff HTML for
// the API responses.
package web

import (
	"log/slog"
	"net/http"
)

// Handler is the web GUI driving adapter. The dashboard is a static shell
// driven entirely by the JSON API.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Dashboard serves the embedded dashboard page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page, err := StaticFS.ReadFile("static/index.html")
	if err != nil {
		h.logger.Error("failed to read dashboard page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
