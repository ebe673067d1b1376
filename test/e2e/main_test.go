//go:build e2e

package e2e

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
)

// TestMain handles setup and cleanup for all E2E tests
func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cleanupSharedContainers()
		cancel()
		os.Exit(1)
	}()

	code := m.Run()

	cleanupSharedContainers()

	select {
	case <-ctx.Done():
		os.Exit(1)
	default:
		os.Exit(code)
	}
}

// cleanupSharedContainers terminates all shared test containers
func cleanupSharedContainers() {
	if sharedPostgresHelper != nil && sharedPostgresHelper.Container != nil {
		_ = sharedPostgresHelper.Container.Terminate(context.Background())
		sharedPostgresHelper = nil
	}
}
