// Package server exposes the catalog proxy endpoints consumed by the search
// screen and the track detail page.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/core"
)

// Catalog is the subset of the catalog client the handlers need.
type Catalog interface {
	Search(ctx context.Context, term string) ([]core.Track, error)
	Lookup(ctx context.Context, id int64) (*core.Track, error)
}

// Handler manages the HTTP interface for the proxy.
type Handler struct {
	catalog Catalog
	router  *http.ServeMux
	logger  zerolog.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(catalog Catalog, logger zerolog.Logger) *Handler {
	h := &Handler{
		catalog: catalog,
		router:  http.NewServeMux(),
		logger:  logger.With().Str("component", "server").Logger(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /api/search", h.Search)
	h.router.HandleFunc("GET /api/tracks/{id}", h.GetTrack)
	// Share links point here.
	h.router.HandleFunc("GET /track/{id}", h.GetTrack)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
