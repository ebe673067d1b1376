// Package catalog is the metadata catalog of peers and flows, backed by a
// PostgreSQL store.
//
// A Catalog owns one connection pool, watched by a background supervisor.
// Once the supervisor declares the connection lost, every operation fails
// fast with ErrConnectionLost; callers observe this through Lost and Err.
//
// Operations are not wrapped in transactions. In particular a flow with
// several table mappings is written row by row, and a failure part-way
// leaves the earlier rows committed.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/internal/telemetry"
	"github.com/marmos91/peercatalog/pkg/executor"
)

// Options tunes catalog construction.
type Options struct {
	// AutoMigrate applies pending migrations before New returns.
	AutoMigrate bool

	// Metrics receives operation metrics. Optional.
	Metrics Metrics
}

// Catalog records peers and flows in the metadata store.
//
// Thread Safety: all methods are safe for concurrent use.
type Catalog struct {
	cfg      *Config
	pool     *pgxpool.Pool
	sup      *supervisor
	log      *slog.Logger
	metrics  Metrics
	executor *executor.Shared

	closeOnce sync.Once
}

// New connects to the metadata store described by cfg and starts the
// connection supervisor.
func New(ctx context.Context, cfg *Config, opts Options) (*Catalog, error) {
	if cfg == nil {
		return nil, newError(ErrInvalidConfig, "", "catalog configuration is required", nil)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, newError(ErrInvalidConfig, "", "invalid catalog configuration", err)
	}

	log := logger.With(logger.Component("catalog"))

	pool, err := createConnectionPool(ctx, cfg, log)
	if err != nil {
		return nil, newError(ErrConnectionFailure, "", "unable to connect to metadata store", err)
	}

	exec, err := executor.NewPostgresExecutor(ctx, cfg.PostgresConfig())
	if err != nil {
		pool.Close()
		return nil, newError(ErrConnectionFailure, "", "unable to create query executor", err)
	}

	c := &Catalog{
		cfg:      cfg,
		pool:     pool,
		log:      log,
		metrics:  opts.Metrics,
		executor: executor.NewShared(exec),
	}

	var onChange func(bool)
	if c.metrics != nil {
		onChange = c.metrics.SetConnectionUp
	}
	c.sup = newSupervisor(pool, cfg, log, onChange)
	c.sup.start()

	if opts.AutoMigrate {
		if _, err := c.RunMigrations(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	log.Info("Catalog ready", logger.KeyHost, cfg.Host, logger.KeyDatabase, cfg.Database)
	return c, nil
}

// Bootstrap connects to the metadata store and brings its schema up to date,
// returning the migrations applied by this call. Any migration failure is
// fatal: the connection is closed and no Catalog is returned.
func Bootstrap(ctx context.Context, cfg *Config, opts Options) (*Catalog, []AppliedMigration, error) {
	opts.AutoMigrate = false
	c, err := New(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	applied, err := c.RunMigrations(ctx)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return c, applied, nil
}

// RunMigrations applies all pending schema migrations in version order and
// returns the ones applied. A store already at the latest version yields an
// empty result.
func (c *Catalog) RunMigrations(ctx context.Context) (applied []AppliedMigration, err error) {
	ctx, end := c.begin(ctx, "RunMigrations")
	defer func() { end(err) }()

	if err = c.sup.alive("RunMigrations"); err != nil {
		return nil, err
	}

	applied, err = runMigrations(ctx, c.cfg.ConnectionString(), c.cfg.Database, c.log)
	if err != nil {
		return nil, newError(ErrMigrationFailure, "", "unable to apply migrations", err)
	}

	telemetry.SetAttributes(ctx, telemetry.MigrationsApplied(len(applied)))
	if c.metrics != nil {
		c.metrics.RecordMigrations(len(applied))
	}
	return applied, nil
}

// Executor returns a new reference to the shared query executor bound to the
// metadata store. Each call yields a distinct handle that the caller must
// Release when done; releasing one handle twice never affects another. The
// executor outlives Close until its last holder releases it.
func (c *Catalog) Executor() *executor.Shared {
	return c.executor.Acquire()
}

// Lost returns a channel that is closed once the store connection has been
// declared lost or the catalog closed.
func (c *Catalog) Lost() <-chan struct{} {
	return c.sup.Lost()
}

// Err returns the reason the store connection was lost, or nil while it is
// alive.
func (c *Catalog) Err() error {
	return c.sup.Err()
}

// Ping checks the store connection.
func (c *Catalog) Ping(ctx context.Context) error {
	if err := c.sup.alive("Ping"); err != nil {
		return err
	}
	if err := c.pool.Ping(ctx); err != nil {
		return newError(ErrStore, "", "ping failed", err)
	}
	return nil
}

// Close stops the supervisor and closes the catalog's connection pool. It
// drops the catalog's own executor reference; executors handed out by
// Executor stay usable until released.
func (c *Catalog) Close() error {
	c.closeOnce.Do(func() {
		c.sup.close()
		c.executor.Release()
		c.pool.Close()
		c.log.Info("Catalog closed")
	})
	return nil
}

// begin starts the span for one catalog operation and returns a function
// that ends it, recording the outcome on the span and in metrics.
func (c *Catalog) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := telemetry.StartCatalogSpan(ctx, operation, attrs...)

	lc := logger.FromContext(ctx)
	if lc == nil {
		lc = logger.NewLogContext(operation)
	} else {
		lc = lc.Clone()
		lc.Operation = operation
	}
	ctx = logger.WithContext(ctx, lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx)))

	return ctx, func(err error) {
		telemetry.RecordError(ctx, err)
		span.End()

		if c.metrics != nil {
			c.metrics.ObserveOperation(operation, time.Since(start), err)
		}
		if err != nil && !IsNotFound(err) {
			logger.DebugCtx(ctx, "Catalog operation failed", logger.Err(err), logger.DurationMs(logger.Duration(start)))
		}
	}
}

// IsClosed reports whether err was caused by using a closed Catalog.
func IsClosed(err error) bool {
	return errors.Is(err, errCatalogClosed)
}
