// Package logging provides a simple leveled logging interface for the
// video manager application.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable.
// Output can additionally be mirrored to a file (the scan.log kept under
// the data directory) via SetLogFile.
package logging
