package handlers

import (
	"encoding/json"
	"net/http"

	"video-manager/internal/database"
	"video-manager/internal/logging"
	"video-manager/internal/scanner"
	"video-manager/internal/startup"
)

// Handlers holds the dependencies shared by every HTTP handler.
type Handlers struct {
	db        *database.Database
	scanner   *scanner.Scanner
	exportDir string
}

// New creates the handler set.
func New(db *database.Database, scan *scanner.Scanner, config *startup.Config) *Handlers {
	return &Handlers{
		db:        db,
		scanner:   scan,
		exportDir: config.ExportDir,
	}
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are logged; they cannot be recovered from in an
// HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error("failed to encode JSON error response: %v", err)
	}
}

// writeJSONOK writes the generic success response used by mutation handlers.
func writeJSONOK(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"ok": true})
}
