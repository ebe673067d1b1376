package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for catalog spans.
const (
	AttrOperation  = "catalog.operation"
	AttrPeerName   = "catalog.peer.name"
	AttrPeerID     = "catalog.peer.id"
	AttrPeerType   = "catalog.peer.type"
	AttrPeerCount  = "catalog.peer.count"
	AttrFlowName   = "catalog.flow.name"
	AttrWorkflowID = "catalog.flow.workflow_id"
	AttrMappings   = "catalog.flow.table_mappings"
	AttrMigrations = "catalog.migrations.applied"
	AttrDBSystem   = "db.system"
	AttrDBName     = "db.namespace"
)

// Operation returns the catalog.operation attribute.
func Operation(name string) attribute.KeyValue {
	return attribute.String(AttrOperation, name)
}

// PeerName returns the catalog.peer.name attribute.
func PeerName(name string) attribute.KeyValue {
	return attribute.String(AttrPeerName, name)
}

// PeerID returns the catalog.peer.id attribute.
func PeerID(id int64) attribute.KeyValue {
	return attribute.Int64(AttrPeerID, id)
}

// PeerType returns the catalog.peer.type attribute.
func PeerType(t string) attribute.KeyValue {
	return attribute.String(AttrPeerType, t)
}

// FlowName returns the catalog.flow.name attribute.
func FlowName(name string) attribute.KeyValue {
	return attribute.String(AttrFlowName, name)
}

// WorkflowID returns the catalog.flow.workflow_id attribute.
func WorkflowID(id string) attribute.KeyValue {
	return attribute.String(AttrWorkflowID, id)
}

// TableMappings returns the catalog.flow.table_mappings attribute.
func TableMappings(n int) attribute.KeyValue {
	return attribute.Int(AttrMappings, n)
}

// MigrationsApplied returns the catalog.migrations.applied attribute.
func MigrationsApplied(n int) attribute.KeyValue {
	return attribute.Int(AttrMigrations, n)
}

// DBSystemPostgres marks spans that touch the metadata store.
func DBSystemPostgres() attribute.KeyValue {
	return attribute.String(AttrDBSystem, "postgresql")
}

// DBNamespace names the metadata store database.
func DBNamespace(name string) attribute.KeyValue {
	return attribute.String(AttrDBName, name)
}

// StartCatalogSpan starts a client span for a catalog operation against the
// metadata store.
func StartCatalogSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all, Operation(operation), DBSystemPostgres())
	all = append(all, attrs...)
	return StartSpan(ctx, "catalog."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(all...),
	)
}

// PeerCount returns the catalog.peer.count attribute.
func PeerCount(n int) attribute.KeyValue {
	return attribute.Int(AttrPeerCount, n)
}
