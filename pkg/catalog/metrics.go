package catalog

import "time"

// Metrics receives catalog instrumentation. A nil Metrics disables
// collection with zero overhead.
type Metrics interface {
	// ObserveOperation records one catalog operation and its outcome.
	ObserveOperation(operation string, duration time.Duration, err error)

	// RecordMigrations records the number of migrations applied by a run.
	RecordMigrations(n int)

	// SetConnectionUp reports the supervised connection state.
	SetConnectionUp(up bool)
}
