package handlers

import (
	"net/http"
	"strconv"

	"video-manager/internal/database"
	"video-manager/internal/logging"
)

// ListVideos handles GET /api/videos. Filters are conjunctive; unrecognized
// sort keys fall back to most-recently-modified.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := database.ListOptions{
		Folder:        q.Get("folder"),
		Search:        q.Get("search"),
		Tag:           q.Get("tag"),
		Sort:          database.SortKey(q.Get("sort")),
		FavoritesOnly: q.Get("favorites_only") == "true" || q.Get("favorites_only") == "1",
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}

	videos, total, err := h.db.ListVideos(r.Context(), opts)
	if err != nil {
		logging.Error("Video listing failed: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"videos": videos,
		"total":  total,
	})
}

// ListFolders handles GET /api/folders.
func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.db.Folders(r.Context())
	if err != nil {
		logging.Error("Folder listing failed: %v", err)
		writeJSONError(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"folders": folders})
}

// Shorts handles GET /api/shorts, the randomized one-per-folder feed.
func (h *Handlers) Shorts(w http.ResponseWriter, r *http.Request) {
	shorts, err := h.db.Shorts(r.Context())
	if err != nil {
		logging.Error("Shorts feed failed: %v", err)
		writeJSONError(w, "Failed to build shorts feed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"shorts": shorts})
}
