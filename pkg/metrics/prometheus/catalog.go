// Package prometheus implements the catalog metrics on the registry of
// pkg/metrics. Import it for side effects to make metrics.NewCatalogMetrics
// return a live implementation.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/peercatalog/pkg/catalog"
	"github.com/marmos91/peercatalog/pkg/metrics"
)

func init() {
	metrics.RegisterCatalogMetricsConstructor(NewCatalogMetrics)
}

// catalogMetrics is the Prometheus implementation of catalog.Metrics.
type catalogMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	migrationsApplied prometheus.Counter
	connectionUp      prometheus.Gauge
}

// NewCatalogMetrics creates a new Prometheus-backed catalog.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewCatalogMetrics() catalog.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}

	return newCatalogMetrics(metrics.GetRegistry())
}

func newCatalogMetrics(reg prometheus.Registerer) *catalogMetrics {
	return &catalogMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "peercatalog_operations_total",
				Help: "Total number of catalog operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "peercatalog_operation_duration_milliseconds",
				Help: "Duration of catalog operations in milliseconds",
				Buckets: []float64{
					1,    // 1ms - indexed lookups
					5,    // 5ms
					10,   // 10ms
					50,   // 50ms - full peer scans
					100,  // 100ms
					500,  // 500ms - multi-mapping flows
					1000, // 1s
					5000, // 5s - migrations
				},
			},
			[]string{"operation"},
		),
		migrationsApplied: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "peercatalog_migrations_applied_total",
				Help: "Total number of schema migrations applied",
			},
		),
		connectionUp: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "peercatalog_connection_up",
				Help: "Whether the metadata store connection is healthy (1) or not (0)",
			},
		),
	}
}

// ObserveOperation implements catalog.Metrics.
func (m *catalogMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	m.operationsTotal.WithLabelValues(operation, status(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000.0)
}

// RecordMigrations implements catalog.Metrics.
func (m *catalogMetrics) RecordMigrations(n int) {
	m.migrationsApplied.Add(float64(n))
}

// SetConnectionUp implements catalog.Metrics.
func (m *catalogMetrics) SetConnectionUp(up bool) {
	if up {
		m.connectionUp.Set(1)
	} else {
		m.connectionUp.Set(0)
	}
}

// status maps an operation outcome to a label value. NotFound is a normal
// answer for lookups, so it is counted apart from failures.
func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case catalog.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
