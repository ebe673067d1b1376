package flow

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/peercatalog/pkg/flow"
)

var schemaFile string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of flow job payloads",
	Long: `Print the JSON schema accepted by 'flow create --file'.

The schema can be used for editor completion and for validating payloads
before they are submitted.

Examples:
  # Print schema to stdout
  peercatalog flow schema

  # Save schema to file
  peercatalog flow schema --file flow-job.schema.json`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFile, "file", "", "Write the schema to this file instead of stdout")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	data, err := flow.SchemaJSON()
	if err != nil {
		return err
	}

	if schemaFile != "" {
		if err := os.WriteFile(schemaFile, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Flow job schema written to %s\n", schemaFile)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
