package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marmos91/peercatalog/internal/logger"
)

// createConnectionPool opens the catalog's pool and verifies it with a ping.
func createConnectionPool(ctx context.Context, cfg *Config, log *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	log.Info("Creating PostgreSQL connection pool",
		logger.KeyHost, cfg.Host,
		logger.KeyPort, cfg.Port,
		logger.KeyDatabase, cfg.Database,
		"user", cfg.User,
		"max_conns", cfg.MaxConns,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Debug("PostgreSQL connection pool ready")
	return pool, nil
}

// pinger is the part of the pool the supervisor health-checks.
type pinger interface {
	Ping(ctx context.Context) error
}

// supervisor watches the store connection in the background. After
// threshold consecutive failed pings it records the cause and closes lost.
// lost is closed at most once and never reopened.
type supervisor struct {
	target    pinger
	period    time.Duration
	threshold int
	timeout   time.Duration
	log       *slog.Logger

	// onChange is called with the connection state after every check.
	onChange func(up bool)

	lost     chan struct{}
	lostOnce sync.Once
	mu       sync.Mutex
	cause    error

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newSupervisor(target pinger, cfg *Config, log *slog.Logger, onChange func(bool)) *supervisor {
	if onChange == nil {
		onChange = func(bool) {}
	}
	return &supervisor{
		target:    target,
		period:    cfg.HealthCheckPeriod,
		threshold: cfg.FailureThreshold,
		timeout:   cfg.ConnectTimeout,
		log:       log,
		onChange:  onChange,
		lost:      make(chan struct{}),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *supervisor) start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.onChange(true)
	go s.run()
}

func (s *supervisor) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		err := s.check()
		if err == nil {
			if failures > 0 {
				s.log.Info("Store connection recovered", "failures", failures)
			}
			failures = 0
			s.onChange(true)
			continue
		}

		failures++
		s.onChange(false)
		s.log.Warn("Store health check failed",
			"failures", failures,
			"threshold", s.threshold,
			logger.Err(err),
		)
		if failures >= s.threshold {
			if s.markLost(err) {
				s.log.Error("Store connection lost", logger.Err(err))
			}
			return
		}
	}
}

func (s *supervisor) check() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.target.Ping(ctx)
}

func (s *supervisor) markLost(cause error) bool {
	marked := false
	s.lostOnce.Do(func() {
		s.mu.Lock()
		s.cause = cause
		s.mu.Unlock()
		close(s.lost)
		marked = true
	})
	return marked
}

// Lost returns a channel closed once the connection is declared lost.
func (s *supervisor) Lost() <-chan struct{} {
	return s.lost
}

// Err returns the cause of connection loss, or nil while the connection is
// considered alive.
func (s *supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// alive returns a ConnectionLost error once the connection has been lost.
func (s *supervisor) alive(operation string) error {
	select {
	case <-s.lost:
		return newError(ErrConnectionLost, "", operation+": store connection lost", s.Err())
	default:
		return nil
	}
}

// close stops the supervisor and waits for it to exit. Operations issued
// after close fail with ErrConnectionLost wrapping errCatalogClosed.
func (s *supervisor) close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
	s.markLost(errCatalogClosed)
	s.onChange(false)
}

var errCatalogClosed = errors.New("catalog closed")
