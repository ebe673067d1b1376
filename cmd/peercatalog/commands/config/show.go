package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
	"github.com/marmos91/peercatalog/pkg/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after merging the config file, environment
variables and defaults. The catalog password is redacted.

Examples:
  # Show as YAML
  peercatalog config show

  # Show as JSON
  peercatalog config show -o json`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmdutil.Flags.ConfigFile)
	if err != nil {
		return err
	}
	if cfg.Catalog.Password != "" {
		cfg.Catalog.Password = "********"
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
