// Package middleware provides HTTP middleware for the video manager.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Response compression (gzip), skipped for video streams
//   - Prometheus request instrumentation
package middleware
