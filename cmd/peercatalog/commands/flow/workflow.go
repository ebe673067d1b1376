package flow

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Get or set a flow's orchestrator workflow id",
}

var workflowGetCmd = &cobra.Command{
	Use:   "get <flow>",
	Short: "Print the workflow id of a flow",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowGet,
}

var workflowSetCmd = &cobra.Command{
	Use:   "set <flow> <workflow-id>",
	Short: "Attach a workflow id to every row of a flow",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorkflowSet,
}

func init() {
	workflowCmd.AddCommand(workflowGetCmd)
	workflowCmd.AddCommand(workflowSetCmd)
}

type workflowResult struct {
	Flow       string `json:"flow" yaml:"flow"`
	WorkflowID string `json:"workflow_id,omitempty" yaml:"workflow_id,omitempty"`
	Found      bool   `json:"found" yaml:"found"`
}

func runWorkflowGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	id, ok, err := session.Catalog.GetWorkflowID(ctx, args[0])
	if err != nil {
		return err
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	result := workflowResult{Flow: args[0], WorkflowID: id, Found: ok}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, result)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, result)
	}

	if !ok {
		fmt.Printf("No workflow id recorded for flow '%s'.\n", args[0])
		return nil
	}
	fmt.Println(id)
	return nil
}

func runWorkflowSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	if err := session.Catalog.UpdateWorkflowID(ctx, args[0], args[1]); err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout,
		workflowResult{Flow: args[0], WorkflowID: args[1], Found: true},
		fmt.Sprintf("Workflow id of flow '%s' set to %s", args[0], args[1]))
}
