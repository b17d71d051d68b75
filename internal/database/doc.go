// Package database provides SQLite-backed storage for the video manager's
// catalog.
//
// It handles storage and retrieval of:
//   - Discovered video files (path, size, modification time)
//   - Per-video user metadata (play counts, favorites, tags)
//   - The append-only watch history
//   - Playlists
//
// The database uses WAL mode so query and mutation paths stay responsive
// while a scan commits batches. Scanner batch flushes use the
// BeginBatch/EndBatch transaction pair; transaction boundaries are batch
// boundaries, so readers never observe a half-flushed batch.
package database
