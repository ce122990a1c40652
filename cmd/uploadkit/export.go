package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/export"
	"github.com/smykla-skalski/uploadkit/internal/loader"
	"github.com/smykla-skalski/uploadkit/internal/report"
)

var (
	exportOverrides overrideFlags
	exportFormat    string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Export a configuration as json, typescript, yaml, env or toml",
	Long: `Export the fully merged configuration of a source.

Without --format the format follows the --output extension, or json when
printing to stdout. Invalid sources are reported and nothing is exported.

Examples:
  uploadkit export upload.json --format yaml
  uploadkit export upload.toml --output src/upload.config.ts
  uploadkit export --set defaults.variant=dropzone --format env`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportOverrides.register(exportCmd)
	exportCmd.Flags().StringVarP(
		&exportFormat,
		"format", "f",
		"",
		"Output format: "+formatNames(),
	)
	exportCmd.Flags().StringVarP(
		&exportOutput,
		"output", "o",
		"",
		"Write to file instead of stdout",
	)

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(exportFormat, exportOutput)
	if err != nil {
		return err
	}

	l, err := newLoader()
	if err != nil {
		return err
	}

	result, err := loadSource(cmd.Context(), l, sourceArg(args), &exportOverrides)
	if err != nil {
		return err
	}

	if err := failOnErrors(result); err != nil {
		return err
	}

	if exportOutput != "" {
		if err := export.WriteFile(exportOutput, result.Config, format); err != nil {
			return err
		}

		log.Info("configuration exported", "path", exportOutput, "format", format)
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", exportOutput)

		return nil
	}

	content, err := export.Export(result.Config, format)
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), content)

	return nil
}

// resolveFormat parses an explicit format or derives one from the output path.
func resolveFormat(name, output string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}

	if output != "" {
		return export.FormatForPath(output), nil
	}

	return export.FormatJSON, nil
}

// failOnErrors prints load errors to stderr and returns errReported when
// there are any.
func failOnErrors(result loader.LoadResult) error {
	if result.OK() {
		return nil
	}

	fmt.Fprintln(os.Stderr, report.Errors(result.Errors, theme))
	fmt.Fprintln(os.Stderr, report.Summary(len(result.Errors), 0, theme))

	return errReported
}

func printText(w io.Writer, content string) {
	fmt.Fprint(w, content)

	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(w)
	}
}

func formatNames() string {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}

	return strings.Join(names, ", ")
}
