package flow

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a flow",
	Long: `Delete every table mapping of a flow from the catalog.

You will be prompted for confirmation unless --force is specified.

Examples:
  # Delete with confirmation
  peercatalog flow delete orders_mirror

  # Delete without confirmation
  peercatalog flow delete orders_mirror --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	return cmdutil.RunDeleteWithConfirmation("Flow", name, deleteForce, func() error {
		return session.Catalog.DeleteFlowJobEntry(ctx, name)
	})
}
