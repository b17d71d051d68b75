// Package scanner provides the filesystem scan-and-reconcile engine that
// keeps the video catalog in sync with a directory tree.
//
// A scan runs in four phases:
//   - Estimate: a counting walk published as the progress total before any
//     mutation happens.
//   - Discovery: a second walk that stats each matching file, normalizes its
//     path, and flushes insert-if-absent batches of 500.
//   - Reconcile: catalog entries whose backing files no longer exist are
//     deleted, batched at the same size, strictly after discovery.
//   - Compaction: a best-effort VACUUM.
//
// Scans are started fire-and-forget and cannot fail once running; per-file
// errors are logged and skipped so a scan finishes with partial results at
// worst. Only one scan runs at a time; overlapping starts are rejected with
// ErrScanActive. Renames appear as a delete plus a later re-discovery since
// identity is path-based.
package scanner
