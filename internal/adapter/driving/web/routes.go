package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the web GUI routes on the provided mux. The
// dashboard is served at / and static assets from the embedded filesystem at
// /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
}
