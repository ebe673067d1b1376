package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/peercatalog/pkg/catalog"
	"github.com/marmos91/peercatalog/pkg/metrics"
)

func TestCatalogMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newCatalogMetrics(reg)

	m.ObserveOperation("GetPeerID", 2*time.Millisecond, nil)
	m.ObserveOperation("GetPeerID", time.Millisecond, &catalog.Error{Code: catalog.ErrNotFound})
	m.ObserveOperation("CreatePeer", time.Millisecond, errors.New("boom"))
	m.RecordMigrations(3)
	m.SetConnectionUp(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("GetPeerID", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("GetPeerID", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("CreatePeer", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.migrationsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectionUp))

	m.SetConnectionUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connectionUp))

	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestNewCatalogMetricsDisabled(t *testing.T) {
	metrics.Reset()
	assert.Nil(t, NewCatalogMetrics())
	assert.Nil(t, metrics.NewCatalogMetrics())
}

func TestNewCatalogMetricsEnabled(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	m := metrics.NewCatalogMetrics()
	require.NotNil(t, m)
	m.ObserveOperation("GetAllPeers", time.Millisecond, nil)

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["peercatalog_operations_total"])
	assert.True(t, names["peercatalog_operation_duration_milliseconds"])
}
