//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresHelper manages the PostgreSQL server the CLI is pointed at.
type PostgresHelper struct {
	Container testcontainers.Container
	Host      string
	Port      int
	User      string
	Password  string
}

// Shared PostgreSQL container for E2E tests (started once per test run)
var sharedPostgresHelper *PostgresHelper

// NewPostgresHelper returns the shared PostgreSQL helper, starting a
// container on first use. POSTGRES_HOST selects an external server instead.
func NewPostgresHelper(t *testing.T) *PostgresHelper {
	t.Helper()

	if sharedPostgresHelper != nil {
		return sharedPostgresHelper
	}

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		port := 5432
		if p := os.Getenv("POSTGRES_PORT"); p != "" {
			if parsed, err := strconv.Atoi(p); err == nil {
				port = parsed
			}
		}
		sharedPostgresHelper = &PostgresHelper{
			Host:     host,
			Port:     port,
			User:     envOr("POSTGRES_USER", "postgres"),
			Password: envOr("POSTGRES_PASSWORD", "postgres"),
		}
		return sharedPostgresHelper
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "peercatalog_e2e",
			"POSTGRES_USER":     "peercatalog_e2e",
			"POSTGRES_PASSWORD": "peercatalog_e2e",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get container port: %v", err)
	}

	// No t.Cleanup here: the container outlives the test that started it
	// and is terminated from TestMain.
	sharedPostgresHelper = &PostgresHelper{
		Container: container,
		Host:      host,
		Port:      port.Int(),
		User:      "peercatalog_e2e",
		Password:  "peercatalog_e2e",
	}
	return sharedPostgresHelper
}

// CreateDatabase creates an empty database for one test and returns its name.
func (ph *PostgresHelper) CreateDatabase(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, fmt.Sprintf("postgres://%s:%s@%s:%d/postgres?sslmode=disable",
		ph.User, ph.Password, ph.Host, ph.Port))
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	name := "e2e_" + uuid.New().String()[:8]
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Fatalf("failed to create database %s: %v", name, err)
	}
	return name
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
