// Package peer implements peer management commands.
package peer

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for peer management.
var Cmd = &cobra.Command{
	Use:   "peer",
	Short: "Peer management",
	Long: `Register and inspect peers: the external databases flows replicate
between. Peers are created once and are not updated or deleted.

Examples:
  # List peers
  peercatalog peer list

  # Register a PostgreSQL peer
  peercatalog peer create postgres --name pg_source --host db.internal --database orders

  # Register a BigQuery peer from a service-account key file
  peercatalog peer create bigquery --name bq_target --key-file sa.json --dataset raw`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
}
