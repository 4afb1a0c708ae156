package server

import (
	"errors"
	"net/http"

	choruserrors "github.com/tessro/chorus/internal/errors"
)

// Search handles GET /api/search?q=<term>.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	tracks, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, choruserrors.ErrMissingQuery):
			writeError(w, http.StatusBadRequest, "No query provided")
		case errors.Is(err, choruserrors.ErrNoResults):
			writeError(w, http.StatusNotFound, "No track found")
		default:
			h.logger.Error().Err(err).Str("query", query).Msg("search failed")
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}
