package executor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/pkg/peers"
)

// PostgresExecutor runs statements against a Postgres peer.
type PostgresExecutor struct {
	pool *pgxpool.Pool
	host string
	db   string
}

// NewPostgresExecutor opens a connection pool to the peer described by cfg.
// Connections are established lazily on first use.
func NewPostgresExecutor(ctx context.Context, cfg *peers.PostgresConfig) (*PostgresExecutor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres configuration is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	logger.Debug("Query executor created", logger.KeyHost, cfg.Host, logger.KeyDatabase, cfg.Database)
	return &PostgresExecutor{pool: pool, host: cfg.Host, db: cfg.Database}, nil
}

// Execute implements QueryExecutor.
func (e *PostgresExecutor) Execute(ctx context.Context, query string, args ...any) (*QueryOutput, error) {
	rows, err := e.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("statement failed: %w", err)
		}
		return &QueryOutput{AffectedRows: rows.CommandTag().RowsAffected()}, nil
	}

	records := &Records{Columns: make([]string, len(fields))}
	for i, f := range fields {
		records.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		records.Rows = append(records.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return &QueryOutput{Records: records}, nil
}

// Close implements QueryExecutor.
func (e *PostgresExecutor) Close() {
	e.pool.Close()
	logger.Debug("Query executor closed", logger.KeyHost, e.host, logger.KeyDatabase, e.db)
}
