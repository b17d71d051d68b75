package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"video-manager/internal/database"
	"video-manager/internal/logging"
	"video-manager/internal/mediatypes"
)

// StreamVideo handles GET /video/{id}. ServeFile supplies range-request
// support for seeking.
func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	path, err := h.db.VideoPath(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Path lookup for video %d failed: %v", id, err)
		writeJSONError(w, "Failed to look up video", http.StatusInternalServerError)
		return
	}

	// Paths are stored with forward slashes
	local := filepath.FromSlash(path)
	if _, err := os.Stat(local); err != nil {
		logging.Warn("Video %d backing file missing: %s", id, path)
		writeJSONError(w, "Video file not found on disk", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mediatypes.GetMimeType(local))
	http.ServeFile(w, r, local)
}
