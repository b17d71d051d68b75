package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-manager/internal/scanner"
)

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	Directory string `json:"directory"`
}

// StartScan launches a background scan of the requested directory and
// returns immediately.
func (h *Handlers) StartScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.scanner.Start(req.Directory)
	switch {
	case errors.Is(err, scanner.ErrEmptyPath):
		writeJSONError(w, "No scan directory given", http.StatusBadRequest)
		return
	case errors.Is(err, scanner.ErrScanActive):
		writeJSONError(w, "A scan is already in progress", http.StatusConflict)
		return
	case err != nil:
		writeJSONError(w, "Failed to start scan", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"started": true})
}

// ScanStatus returns a snapshot of the in-flight scan progress.
func (h *Handlers) ScanStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.scanner.Status())
}
