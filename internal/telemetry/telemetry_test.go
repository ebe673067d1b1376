package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans routes catalog spans to an in-memory recorder for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	previous := Tracer()
	setTracer(provider.Tracer(instrumentationName))
	t.Cleanup(func() {
		setTracer(previous)
		_ = provider.Shutdown(context.Background())
	})
	return rec
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "peercatalog", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, shutdown(ctx))

	_, span := StartSpan(ctx, "catalog.GetAllPeers")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid(), "disabled tracing hands out no-op spans")
	assert.Empty(t, TraceID(ctx))
	assert.Empty(t, SpanID(ctx))
}

func TestNewResourceDescribesStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceVersion = "1.2.3"
	cfg.Database = "catalog"

	res, err := newResource(context.Background(), cfg)
	require.NoError(t, err)

	set := res.Set()
	for key, want := range map[attribute.Key]string{
		"service.name":    "peercatalog",
		"service.version": "1.2.3",
		AttrDBSystem:      "postgresql",
		AttrDBName:        "catalog",
	} {
		v, ok := set.Value(key)
		require.True(t, ok, "missing %s", key)
		assert.Equal(t, want, v.AsString(), key)
	}

	cfg.Database = ""
	res, err = newResource(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := res.Set().Value(AttrDBName)
	assert.False(t, ok)
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(2).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
	assert.Contains(t, newSampler(0.25).Description(), "ParentBased")
}

func TestStartCatalogSpan(t *testing.T) {
	rec := recordSpans(t)

	ctx, span := StartCatalogSpan(context.Background(), "CreateFlowJobEntry", FlowName("f1"), TableMappings(2))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))
	SetAttributes(ctx, MigrationsApplied(0))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "catalog.CreateFlowJobEntry", ended[0].Name())

	attrs := attribute.NewSet(ended[0].Attributes()...)
	for key, want := range map[attribute.Key]any{
		AttrOperation:  "CreateFlowJobEntry",
		AttrDBSystem:   "postgresql",
		AttrFlowName:   "f1",
		AttrMappings:   int64(2),
		AttrMigrations: int64(0),
	} {
		v, ok := attrs.Value(key)
		require.True(t, ok, "missing %s", key)
		assert.Equal(t, want, v.AsInterface(), key)
	}
}

func TestRecordError(t *testing.T) {
	rec := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "catalog.GetPeerID")
	RecordError(ctx, nil)
	RecordError(ctx, errors.New("peer not found"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "peer not found", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestRecordErrorNilLeavesStatusUnset(t *testing.T) {
	rec := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "catalog.Ping")
	RecordError(ctx, nil)
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Unset, rec.Ended()[0].Status().Code)
	assert.Empty(t, rec.Ended()[0].Events())
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("PeerName", func(t *testing.T) {
		attr := PeerName("pg_source")
		assert.Equal(t, AttrPeerName, string(attr.Key))
		assert.Equal(t, "pg_source", attr.Value.AsString())
	})

	t.Run("PeerID", func(t *testing.T) {
		attr := PeerID(42)
		assert.Equal(t, AttrPeerID, string(attr.Key))
		assert.Equal(t, int64(42), attr.Value.AsInt64())
	})

	t.Run("PeerType", func(t *testing.T) {
		attr := PeerType("snowflake")
		assert.Equal(t, AttrPeerType, string(attr.Key))
		assert.Equal(t, "snowflake", attr.Value.AsString())
	})

	t.Run("WorkflowID", func(t *testing.T) {
		attr := WorkflowID("wf-1")
		assert.Equal(t, AttrWorkflowID, string(attr.Key))
		assert.Equal(t, "wf-1", attr.Value.AsString())
	})

	t.Run("PeerCount", func(t *testing.T) {
		attr := PeerCount(4)
		assert.Equal(t, AttrPeerCount, string(attr.Key))
		assert.Equal(t, int64(4), attr.Value.AsInt64())
	})

	t.Run("DBNamespace", func(t *testing.T) {
		attr := DBNamespace("catalog")
		assert.Equal(t, AttrDBName, string(attr.Key))
		assert.Equal(t, "catalog", attr.Value.AsString())
	})
}
