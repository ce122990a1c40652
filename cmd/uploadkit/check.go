package main

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/acceptance"
	"github.com/smykla-skalski/uploadkit/internal/report"
)

var (
	checkOverrides overrideFlags
	checkConfig    string
	checkJSON      bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check files against the validation rules of a configuration",
	Long: `Check which files a widget using the configuration would accept.

Size, MIME type, extension, image dimensions and the file count limit are
checked. MIME types are detected from file content.

Examples:
  uploadkit check --config upload.json photo.png report.pdf
  uploadkit check --set validation.allowedTypes='["image/*"]' *.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkOverrides.register(checkCmd)
	checkCmd.Flags().StringVarP(&checkConfig, "config", "c", "", "Configuration source (default: built-in defaults)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print rejections as JSON")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	l, err := newLoader()
	if err != nil {
		return err
	}

	result, err := loadSource(cmd.Context(), l, checkConfig, &checkOverrides)
	if err != nil {
		return err
	}

	if err := failOnErrors(result); err != nil {
		return err
	}

	results, err := acceptance.NewChecker(result.Config.Validation, log).CheckFiles(args)
	if err != nil {
		return err
	}

	rejections := []acceptance.Rejection{}

	for _, r := range results {
		rejections = append(rejections, r.Rejections...)
	}

	out := cmd.OutOrStdout()

	if checkJSON {
		data, err := json.MarshalIndent(rejections, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode rejections")
		}

		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, report.Rejections(results, theme))
		fmt.Fprintf(out, "%d of %d file(s) accepted\n", len(results)-rejectedCount(results), len(results))
	}

	if len(rejections) > 0 {
		return errReported
	}

	return nil
}

func rejectedCount(results []acceptance.Result) int {
	n := 0

	for _, r := range results {
		if !r.Accepted() {
			n++
		}
	}

	return n
}
