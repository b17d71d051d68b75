package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"video-manager/internal/database"
	"video-manager/internal/logging"
)

// MetaActionRequest is the body of POST /api/meta.
type MetaActionRequest struct {
	VideoID int64  `json:"video_id"`
	Action  string `json:"action"`
	Tags    string `json:"tags"`
}

// BulkActionRequest is the body of POST /api/bulk_action.
type BulkActionRequest struct {
	Action   string  `json:"action"`
	VideoIDs []int64 `json:"video_ids"`
	Tags     string  `json:"tags"`
}

// GetMeta handles GET /api/meta?id=N. Videos with no metadata row get the
// zero view rather than a 404.
func (h *Handlers) GetMeta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeJSONError(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	meta, err := h.db.Meta(r.Context(), id)
	if err != nil {
		logging.Error("Meta lookup for video %d failed: %v", id, err)
		writeJSONError(w, "Failed to look up metadata", http.StatusInternalServerError)
		return
	}

	writeJSON(w, meta)
}

// MetaAction handles POST /api/meta, dispatching on the action field.
func (h *Handlers) MetaAction(w http.ResponseWriter, r *http.Request) {
	var req MetaActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "play":
		err = h.db.RecordPlay(r.Context(), req.VideoID)
	case "toggle_favorite":
		err = h.db.ToggleFavorite(r.Context(), req.VideoID)
	case "set_tags":
		err = h.db.SetTags(r.Context(), req.VideoID, database.SplitTags(req.Tags))
	default:
		writeJSONError(w, "Unknown action: "+req.Action, http.StatusBadRequest)
		return
	}

	if err != nil {
		logging.Error("Meta action %q for video %d failed: %v", req.Action, req.VideoID, err)
		writeJSONError(w, "Failed to apply action", http.StatusInternalServerError)
		return
	}

	writeJSONOK(w)
}

// BulkAction handles POST /api/bulk_action. Bulk operations are per-video
// transactions with no cross-video atomicity.
func (h *Handlers) BulkAction(w http.ResponseWriter, r *http.Request) {
	var req BulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.VideoIDs) == 0 {
		writeJSONError(w, "No video ids given", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "add_favorite":
		err = h.db.BulkSetFavorite(r.Context(), req.VideoIDs, true)
	case "remove_favorite":
		err = h.db.BulkSetFavorite(r.Context(), req.VideoIDs, false)
	case "add_tags":
		err = h.db.BulkAddTags(r.Context(), req.VideoIDs, req.Tags)
	default:
		writeJSONError(w, "Unknown action: "+req.Action, http.StatusBadRequest)
		return
	}

	if err != nil {
		logging.Error("Bulk action %q over %d videos failed: %v", req.Action, len(req.VideoIDs), err)
		writeJSONError(w, "Failed to apply bulk action", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"ok":    true,
		"count": len(req.VideoIDs),
	})
}
