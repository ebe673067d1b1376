// Package commands implements the peercatalog CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/cmd/peercatalog/commands/config"
	"github.com/marmos91/peercatalog/cmd/peercatalog/commands/flow"
	"github.com/marmos91/peercatalog/cmd/peercatalog/commands/peer"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "peercatalog",
	Short: "Peer and flow metadata catalog",
	Long: `peercatalog manages the metadata catalog of a data-replication system:
the registered peers (external databases) and the flow jobs that move
tables between them.

The catalog lives in PostgreSQL. Connection settings come from the config
file, PEERCATALOG_* environment variables, or defaults.

Use "peercatalog [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Version = Version
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cmdutil.Flags.ConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/peercatalog/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&cmdutil.Flags.Output, "output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&cmdutil.Flags.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(peer.Cmd)
	rootCmd.AddCommand(flow.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
