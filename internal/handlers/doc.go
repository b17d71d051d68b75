// Package handlers implements the HTTP API: scan control, video listing and
// streaming, metadata actions, playlists, stats, export, and health probes.
//
// Sentinel errors from the scanner and database layers map to status codes
// (empty scan target 400, scan already running 409, unknown video 404);
// everything else is a generic 500 with the detail in the server log.
package handlers
