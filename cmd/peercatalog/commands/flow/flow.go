// Package flow implements flow job commands.
package flow

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for flow management.
var Cmd = &cobra.Command{
	Use:   "flow",
	Short: "Flow job management",
	Long: `Register, inspect and remove flow jobs. A flow moves one or more tables
from a source peer to a destination peer.

Examples:
  # Register a flow from flags
  peercatalog flow create --name orders_mirror --source pg_source --target bq_target \
    --table orders=raw_orders --table customers=raw_customers

  # Register a flow from a JSON payload
  peercatalog flow create --file orders_mirror.json

  # Attach the orchestrator workflow id
  peercatalog flow workflow set orders_mirror wf-7f3a

  # Remove a flow
  peercatalog flow delete orders_mirror

  # Print the payload schema
  peercatalog flow schema`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(workflowCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(schemaCmd)
}
