package peer

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List peers",
	Long: `List all registered peers ordered by id. Credentials are never shown.

Peers whose stored type this version does not recognize are listed with
their type as Unknown(n).

Examples:
  # List as table
  peercatalog peer list

  # List as JSON
  peercatalog peer list -o json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	all, err := session.Catalog.GetAllPeers(ctx)
	if err != nil {
		return err
	}

	list := output.NewPeerList(all)
	return cmdutil.PrintOutput(os.Stdout, list, len(list) == 0, "No peers found.", list)
}
