package flow

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a registered flow",
	Long: `Show a flow's peers, workflow id and table mappings as stored in the
catalog, after identifier normalization.

Examples:
  peercatalog flow show orders_mirror
  peercatalog flow show orders_mirror -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	entry, err := session.Catalog.GetFlowJob(ctx, args[0])
	if err != nil {
		return err
	}
	view := output.FlowView{Entry: *entry}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintOutput(os.Stdout, view, false, "", view)
	}

	if err := output.PrintKeyValues(os.Stdout, view.Details()); err != nil {
		return err
	}
	fmt.Println()
	return output.PrintTable(os.Stdout, view)
}
