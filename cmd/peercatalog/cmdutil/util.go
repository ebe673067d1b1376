// Package cmdutil provides shared utilities for peercatalog commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marmos91/peercatalog/internal/cli/output"
	"github.com/marmos91/peercatalog/internal/cli/prompt"
	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/internal/telemetry"
	"github.com/marmos91/peercatalog/pkg/catalog"
	"github.com/marmos91/peercatalog/pkg/config"
	"github.com/marmos91/peercatalog/pkg/metrics"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// Version is the build version reported to the tracing backend.
var Version = "dev"

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	NoColor    bool
}

// LoadConfig loads the configuration named by --config (or the default
// location) and initializes the structured logger from it.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Session is an open catalog together with the telemetry it was opened with.
type Session struct {
	Config  *config.Config
	Catalog *catalog.Catalog

	shutdownTelemetry func(context.Context) error
}

// Close closes the catalog and flushes pending spans.
func (s *Session) Close(ctx context.Context) {
	if err := s.Catalog.Close(); err != nil {
		logger.Warn("Catalog close failed", logger.Err(err))
	}
	if err := s.shutdownTelemetry(ctx); err != nil {
		logger.Warn("Telemetry shutdown error", logger.Err(err))
	}
}

// OpenCatalog loads configuration, initializes tracing and metrics as
// configured and connects to the catalog.
func OpenCatalog(ctx context.Context) (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return openWithConfig(ctx, cfg, catalog.Options{AutoMigrate: cfg.AutoMigrate})
}

// BootstrapCatalog is OpenCatalog followed by an unconditional migration
// run. It returns the migrations applied.
func BootstrapCatalog(ctx context.Context) (*Session, []catalog.AppliedMigration, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	session, err := openWithConfig(ctx, cfg, catalog.Options{})
	if err != nil {
		return nil, nil, err
	}
	applied, err := session.Catalog.RunMigrations(ctx)
	if err != nil {
		session.Close(ctx)
		return nil, nil, err
	}
	return session, applied, nil
}

func openWithConfig(ctx context.Context, cfg *config.Config, opts catalog.Options) (*Session, error) {
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "peercatalog",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Database:       cfg.Catalog.Database,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if cfg.Metrics.Enabled && !metrics.IsEnabled() {
		metrics.InitRegistry()
	}
	opts.Metrics = metrics.NewCatalogMetrics()

	c, err := catalog.New(ctx, &cfg.Catalog, opts)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return &Session{Config: cfg, Catalog: c, shutdownTelemetry: shutdown}, nil
}

// GetOutputFormatParsed returns the parsed --output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled returns whether color output is disabled.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// PrintOutput prints data in the selected format. For table output it
// prints emptyMsg instead when isEmpty is set.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a success message if the output format is table.
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stdout, format, !IsColorDisabled())
	printer.Success(msg)
}

// PrintResourceWithSuccess prints a success message for table output and
// the resource itself for JSON or YAML.
func PrintResourceWithSuccess(w io.Writer, data any, successMsg string) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		PrintSuccess(successMsg)
		return nil
	}
}

// RunDeleteWithConfirmation prompts for confirmation (unless force is true) and runs deleteFn.
func RunDeleteWithConfirmation(resourceType, name string, force bool, deleteFn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'?", resourceType, name), force)
	if err != nil {
		return HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := deleteFn(); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("%s '%s' deleted successfully", resourceType, name))
	return nil
}

// HandleAbort returns nil for a cancelled prompt, otherwise err.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// ParseCommaSeparatedList parses a comma-separated string into a slice of trimmed strings.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
