package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"video-manager/internal/logging"
)

// PlaylistRequest is the body of POST /api/playlists.
type PlaylistRequest struct {
	Name     string  `json:"name"`
	VideoIDs []int64 `json:"video_ids"`
}

// ListPlaylists handles GET /api/playlists.
func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.db.Playlists(r.Context())
	if err != nil {
		logging.Error("Playlist listing failed: %v", err)
		writeJSONError(w, "Failed to list playlists", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"playlists": playlists})
}

// CreatePlaylist handles POST /api/playlists.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	playlist, err := h.db.CreatePlaylist(r.Context(), req.Name, req.VideoIDs)
	if err != nil {
		logging.Error("Playlist creation failed: %v", err)
		writeJSONError(w, "Failed to create playlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, playlist)
}

// DeletePlaylist handles DELETE /api/playlists?id=N. Deleting an absent
// playlist succeeds.
func (h *Handlers) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}

	if err := h.db.DeletePlaylist(r.Context(), id); err != nil {
		logging.Error("Playlist %d deletion failed: %v", id, err)
		writeJSONError(w, "Failed to delete playlist", http.StatusInternalServerError)
		return
	}

	writeJSONOK(w)
}
