package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/schema"
)

var (
	schemaOutput  string
	schemaDir     string
	schemaCompact bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for configuration",
	Long: `Generate a JSON Schema (Draft 2020-12) for the uploadkit configuration format.

The schema is derived from the Go config types and includes type constraints,
enum values, and descriptions for all configuration options.

Examples:
  uploadkit schema                           # Print to stdout
  uploadkit schema --output schema.json      # Write to file
  uploadkit schema --dir schema              # Write schema/`+schema.Filename()+`
  uploadkit schema --compact                 # Compact output`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(
		&schemaOutput,
		"output", "o",
		"",
		"Write schema to file instead of stdout",
	)

	schemaCmd.Flags().StringVar(
		&schemaDir,
		"dir",
		"",
		"Write the schema under its published file name in this directory",
	)

	schemaCmd.Flags().BoolVar(
		&schemaCompact,
		"compact",
		false,
		"Output compact JSON without indentation",
	)

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaCompact)
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	if schemaDir != "" && schemaOutput == "" {
		if err := os.MkdirAll(schemaDir, 0o755); err != nil {
			return errors.Wrap(err, "creating schema directory")
		}

		schemaOutput = filepath.Join(schemaDir, schema.Filename())
	}

	if schemaOutput != "" {
		const filePerms = 0o644

		if writeErr := os.WriteFile(schemaOutput, data, filePerms); writeErr != nil {
			return errors.Wrap(writeErr, "writing schema file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutput)

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))

	return nil
}
