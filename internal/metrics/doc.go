// Package metrics defines the Prometheus collectors exported by the video
// manager: HTTP request instrumentation, database query and transaction
// timings, scanner run counters, and library-wide gauges.
//
// All collectors are registered with the default registry via promauto and
// served by promhttp on the metrics port.
package metrics
