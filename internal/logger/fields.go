package logger

import "log/slog"

// Standard field keys for catalog logging. Use these consistently so log
// aggregation can group by peer, flow, or migration.
const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	KeyComponent = "component"
	KeyOperation = "operation"
	KeyError     = "error"
	KeyDuration  = "duration_ms"

	KeyPeer     = "peer"
	KeyPeerID   = "peer_id"
	KeyPeerType = "peer_type"

	KeyFlow       = "flow"
	KeyWorkflowID = "workflow_id"
	KeyMappings   = "table_mappings"

	KeyMigration = "migration"
	KeyVersion   = "version"

	KeyHost     = "host"
	KeyPort     = "port"
	KeyDatabase = "database"
)

// Err returns a slog.Attr for an error, or an empty Attr when err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component returns a slog.Attr naming the emitting component
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation returns a slog.Attr for the catalog operation
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// DurationMs returns a slog.Attr for an elapsed time in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDuration, ms)
}

// Peer returns a slog.Attr for a peer name
func Peer(name string) slog.Attr {
	return slog.String(KeyPeer, name)
}

// PeerID returns a slog.Attr for a peer id
func PeerID(id int64) slog.Attr {
	return slog.Int64(KeyPeerID, id)
}

// PeerType returns a slog.Attr for a peer backend type
func PeerType(t string) slog.Attr {
	return slog.String(KeyPeerType, t)
}

// Flow returns a slog.Attr for a flow name
func Flow(name string) slog.Attr {
	return slog.String(KeyFlow, name)
}

// WorkflowID returns a slog.Attr for an orchestration workflow id
func WorkflowID(id string) slog.Attr {
	return slog.String(KeyWorkflowID, id)
}

// Migration returns a slog.Attr for a migration name
func Migration(name string) slog.Attr {
	return slog.String(KeyMigration, name)
}

// Version returns a slog.Attr for a schema version
func Version(v uint) slog.Attr {
	return slog.Uint64(KeyVersion, uint64(v))
}
