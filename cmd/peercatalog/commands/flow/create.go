package flow

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/internal/cli/output"
	"github.com/marmos91/peercatalog/pkg/flow"
)

var (
	createFile        string
	createName        string
	createSource      string
	createTarget      string
	createDescription string
	createTables      []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a flow job",
	Long: `Register a flow job in the catalog.

The job is read from a JSON payload with --file ("-" reads stdin), or built
from flags. Each --table takes SOURCE=DESTINATION. Single-segment identifiers
are qualified with the "public" schema, except on BigQuery peers.

Payload format:
  {
    "name": "orders_mirror",
    "description": "orders to warehouse",
    "source_peer": "pg_source",
    "target_peer": "bq_target",
    "table_mappings": [
      {"source_table_identifier": "orders", "target_table_identifier": "raw_orders"}
    ]
  }`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON payload file (- for stdin)")
	createCmd.Flags().StringVar(&createName, "name", "", "Flow name")
	createCmd.Flags().StringVar(&createSource, "source", "", "Source peer name")
	createCmd.Flags().StringVar(&createTarget, "target", "", "Destination peer name")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Description")
	createCmd.Flags().StringArrayVar(&createTables, "table", nil, "Table mapping SOURCE=DESTINATION (repeatable)")
	createCmd.MarkFlagsMutuallyExclusive("file", "name")
	createCmd.MarkFlagsMutuallyExclusive("file", "table")
}

func runCreate(cmd *cobra.Command, args []string) error {
	job, err := loadJob(cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := cmdutil.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	if err := session.Catalog.CreateFlowJobEntry(ctx, job); err != nil {
		return err
	}

	entry, err := session.Catalog.GetFlowJob(ctx, job.Name)
	if err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, output.FlowView{Entry: *entry},
		fmt.Sprintf("Flow '%s' registered with %d table mapping(s)", job.Name, len(entry.TableMappings)))
}

func loadJob(stdin io.Reader) (*flow.FlowJob, error) {
	if createFile == "" {
		mappings, err := parseTableMappings(createTables)
		if err != nil {
			return nil, err
		}
		return &flow.FlowJob{
			Name:          createName,
			Description:   createDescription,
			SourcePeer:    createSource,
			TargetPeer:    createTarget,
			TableMappings: mappings,
		}, nil
	}

	r := stdin
	if createFile != "-" {
		f, err := os.Open(createFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open payload: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return flow.DecodeJSON(r)
}

// parseTableMappings parses SOURCE=DESTINATION pairs.
func parseTableMappings(specs []string) ([]flow.TableMapping, error) {
	mappings := make([]flow.TableMapping, 0, len(specs))
	for _, arg := range specs {
		src, dst, ok := strings.Cut(arg, "=")
		src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf("invalid table mapping %q: expected SOURCE=DESTINATION", arg)
		}
		mappings = append(mappings, flow.TableMapping{
			SourceTableIdentifier: src,
			TargetTableIdentifier: dst,
		})
	}
	return mappings, nil
}
