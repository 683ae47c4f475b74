package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryProvider defines the interface for accessing the interceptor's metrics registry.
// Consumers expose it via their chosen method (e.g., a Prometheus HTTP endpoint).
type RegistryProvider interface {
	// Registry returns the Prometheus registry holding interceptor metrics.
	Registry() *prometheus.Registry
}
