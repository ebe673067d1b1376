package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Write a configuration file populated with default settings.

By default, the file is created at $XDG_CONFIG_HOME/peercatalog/config.yaml.
Use --config to choose another path.

Examples:
  # Initialize with default location
  peercatalog config init

  # Initialize with custom path
  peercatalog config init --config /etc/peercatalog/config.yaml

  # Overwrite an existing file
  peercatalog config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set the catalog connection under 'catalog:'")
	_, _ = fmt.Fprintln(out, "  2. Create the schema with: peercatalog migrate")
	_, _ = fmt.Fprintln(out, "\nThe catalog password can also be supplied via PEERCATALOG_CATALOG_PASSWORD.")
	return nil
}
