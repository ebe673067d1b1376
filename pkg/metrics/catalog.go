package metrics

import (
	"github.com/marmos91/peercatalog/pkg/catalog"
)

// NewCatalogMetrics creates a new Prometheus-backed catalog.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or no
// implementation has been linked in. Passing nil to catalog.Options keeps
// the catalog uninstrumented.
//
// Example usage:
//
//	metrics.InitRegistry()
//	c, err := catalog.New(ctx, cfg, catalog.Options{Metrics: metrics.NewCatalogMetrics()})
func NewCatalogMetrics() catalog.Metrics {
	if !IsEnabled() || newPrometheusCatalogMetrics == nil {
		return nil
	}
	return newPrometheusCatalogMetrics()
}

// newPrometheusCatalogMetrics is implemented in pkg/metrics/prometheus/catalog.go
var newPrometheusCatalogMetrics func() catalog.Metrics

// RegisterCatalogMetricsConstructor registers the Prometheus catalog metrics
// constructor. Called by pkg/metrics/prometheus during package initialization.
func RegisterCatalogMetricsConstructor(constructor func() catalog.Metrics) {
	newPrometheusCatalogMetrics = constructor
}
