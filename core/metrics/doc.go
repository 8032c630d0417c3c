// Package metrics defines the Prometheus counters exported by the service.
//
// Metrics are registered against an explicit prometheus.Registerer so that tests
// can use a fresh registry. The start command registers them with the default
// registry and serves them on GET /metrics.
package metrics
