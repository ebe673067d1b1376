package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/pkg/api"
)

var monitorPort int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Serve catalog health probes and metrics",
	Long: `Connect to the catalog and serve health probes and Prometheus metrics
over HTTP until interrupted.

Endpoints:
  GET /health         Liveness probe
  GET /health/ready   Catalog connection readiness
  GET /metrics        Prometheus metrics (when metrics are enabled)

The command exits with an error once the catalog connection is declared
lost, so a supervisor can restart it.

Examples:
  # Serve on the configured metrics port
  peercatalog monitor

  # Serve on a custom port
  peercatalog monitor --port 9100`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorPort, "port", 0, "HTTP port (default: metrics.port from config)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(context.Background())

	port := monitorPort
	if port == 0 {
		port = session.Config.Metrics.Port
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := api.NewServer(api.APIConfig{Port: port}, session.Catalog)
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(serveCtx)
	}()

	logger.Info("Monitoring catalog. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		cancel()
		return <-serverDone
	case <-session.Catalog.Lost():
		cancel()
		<-serverDone
		cause := session.Catalog.Err()
		if cause == nil {
			cause = errors.New("connection closed")
		}
		return fmt.Errorf("catalog connection lost: %w", cause)
	case err := <-serverDone:
		return err
	}
}
