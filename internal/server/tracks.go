package server

import (
	"errors"
	"net/http"
	"strconv"

	choruserrors "github.com/tessro/chorus/internal/errors"
)

// GetTrack handles GET /api/tracks/{id}.
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Track ID is missing")
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Track ID must be numeric")
		return
	}

	track, err := h.catalog.Lookup(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, choruserrors.ErrTrackNotFound):
			writeError(w, http.StatusNotFound, "Track not found")
		case errors.Is(err, choruserrors.ErrInvalidTrackID):
			writeError(w, http.StatusBadRequest, "Track ID must be numeric")
		default:
			h.logger.Error().Err(err).Int64("id", id).Msg("track lookup failed")
			writeError(w, http.StatusInternalServerError, "Failed to load track data")
		}
		return
	}

	writeJSON(w, http.StatusOK, track)
}
