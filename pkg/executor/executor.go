// Package executor provides the query-execution capability handed out by the
// catalog. An executor runs statements against a peer over its own
// connection pool, separate from the catalog's.
package executor

import (
	"context"
	"errors"
)

// ErrClosed is returned by Execute once the executor has been closed.
var ErrClosed = errors.New("executor closed")

// QueryExecutor runs statements against a peer.
//
// Implementations must be safe for concurrent use.
type QueryExecutor interface {
	// Execute runs query with args. Statements that return rows yield
	// Records; all others yield AffectedRows.
	Execute(ctx context.Context, query string, args ...any) (*QueryOutput, error)

	// Close releases the executor's resources.
	Close()
}

// QueryOutput is the result of one statement. Exactly one of AffectedRows
// and Records is meaningful: Records is nil for statements that return no
// rows.
type QueryOutput struct {
	AffectedRows int64    `json:"affected_rows"`
	Records      *Records `json:"records,omitempty"`
}

// Records is a materialized row set.
type Records struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
