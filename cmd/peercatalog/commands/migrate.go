package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
	"github.com/marmos91/peercatalog/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending catalog schema migrations",
	Long: `Apply pending schema migrations to the catalog database.

Migrations are embedded in the binary and applied in version order. Running
the command against an up-to-date catalog is a no-op. Concurrent runs are
serialized by a database lock.

Examples:
  # Run migrations with default config
  peercatalog migrate

  # Run migrations against another catalog
  PEERCATALOG_CATALOG_HOST=db.internal peercatalog migrate

  # Print applied migrations as JSON
  peercatalog migrate -o json`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, applied, err := cmdutil.BootstrapCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	logger.Info("Catalog schema up to date", "applied", len(applied))

	list := output.MigrationList(applied)
	if list == nil {
		list = output.MigrationList{}
	}
	return cmdutil.PrintOutput(os.Stdout, list, len(list) == 0, "Catalog schema is already up to date.", list)
}
