package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql

	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/pkg/catalog/migrations"
)

const migrationsTable = "schema_migrations"

// AppliedMigration identifies one migration applied by a run.
type AppliedMigration struct {
	Version uint   `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
}

func (a AppliedMigration) String() string {
	return a.Name
}

// migrateLogger forwards golang-migrate's output to the catalog logger.
type migrateLogger struct {
	log *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool {
	return false
}

// runMigrations applies every pending migration in version order and reports
// the ones it applied. golang-migrate takes a PostgreSQL advisory lock, so
// concurrent runners are serialized and the loser sees nothing to apply.
func runMigrations(ctx context.Context, connString, database string, log *slog.Logger) ([]AppliedMigration, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: migrationsTable,
		DatabaseName:    database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log: log}

	// Read without the advisory lock: another runner may be mid-migration,
	// in which case Up waits for it and reports no change.
	before, _, err := m.Version()
	hasBefore := err == nil
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	log.Info("Applying migrations...")
	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return nil, fmt.Errorf("migration failed: %w", upErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("migration interrupted: %w", err)
	}

	after, hasAfter, err := currentVersion(m)
	if err != nil {
		return nil, err
	}

	if errors.Is(upErr, migrate.ErrNoChange) || !hasAfter {
		log.Info("No migrations to apply (database is up to date)")
		return nil, nil
	}

	listing, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	defer listing.Close()

	applied, err := collectApplied(listing, before, hasBefore, after)
	if err != nil {
		return nil, err
	}

	for _, a := range applied {
		log.Info("Migration applied", logger.Migration(a.Name), logger.Version(a.Version))
	}
	log.Info("Migrations completed successfully", logger.Version(after), "applied", len(applied))

	return applied, nil
}

// currentVersion returns the schema version and whether one is recorded at
// all. A dirty schema is reported as an error.
func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return version, true, fmt.Errorf("schema version %d is dirty, manual intervention required", version)
	}
	return version, true, nil
}

// collectApplied lists the migrations of src with versions in
// (before, after], or [first, after] when no version was recorded before.
func collectApplied(src source.Driver, before uint, hasBefore bool, after uint) ([]AppliedMigration, error) {
	var applied []AppliedMigration

	v, err := src.First()
	for ; err == nil; v, err = src.Next(v) {
		if v > after {
			break
		}
		if hasBefore && v <= before {
			continue
		}
		name, nameErr := migrationName(src, v)
		if nameErr != nil {
			return nil, nameErr
		}
		applied = append(applied, AppliedMigration{Version: v, Name: name})
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	return applied, nil
}

func migrationName(src source.Driver, version uint) (string, error) {
	r, identifier, err := src.ReadUp(version)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	_ = r.Close()
	return fmt.Sprintf("%06d_%s", version, identifier), nil
}

// MigrationVersion reports the current schema version of the store without
// applying anything. ok is false on a fresh database.
func MigrationVersion(ctx context.Context, cfg *Config) (version uint, ok bool, err error) {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return 0, false, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, false, newError(ErrConnectionFailure, "", "unable to reach metadata store", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return 0, false, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, false, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	return currentVersion(m)
}
