package handlers

import (
	"net/http"
	"path/filepath"

	"video-manager/internal/logging"
)

// Stats handles GET /api/stats. The stats query degrades to the zero value
// on storage failure, so this handler never errors.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.db.Stats(r.Context()))
}

// Export handles GET /api/export, writing a full catalog snapshot under the
// export directory and serving it as a download.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	path, err := h.db.ExportSnapshot(r.Context(), h.exportDir)
	if err != nil {
		logging.Error("Export failed: %v", err)
		writeJSONError(w, "Failed to export catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	http.ServeFile(w, r, path)
}
