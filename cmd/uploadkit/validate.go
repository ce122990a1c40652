package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/report"
)

var (
	validateOverrides overrideFlags
	validateJSON      bool
	validateSummary   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Validate a configuration",
	Long: `Validate a configuration source against the configuration schema.

The source is merged onto the defaults before validation, so partial
configurations are valid as long as every field they set is.

Examples:
  uploadkit validate upload.json
  uploadkit validate https://cdn.example.com/upload.toml
  uploadkit validate '{"defaults": {"maxFiles": 0}}'
  uploadkit validate upload.yaml --set styling.theme=dark --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateOverrides.register(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	validateCmd.Flags().BoolVar(&validateSummary, "summary", false, "Summarize the configuration when it is valid")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	l, err := newLoader()
	if err != nil {
		return err
	}

	source := sourceArg(args)

	result, err := loadSource(cmd.Context(), l, source, &validateOverrides)
	if err != nil {
		return err
	}

	var warnings []string

	if result.OK() && strings.TrimSpace(source) != "" {
		if fragment, readErr := l.ReadFragment(cmd.Context(), source); readErr == nil {
			warnings = internalconfig.MergeConfigurations(fragment, nil).Warnings
		}
	}

	out := cmd.OutOrStdout()

	if validateJSON {
		data, err := json.MarshalIndent(internalconfig.ValidationResult{
			IsValid: result.OK(),
			Errors:  result.Errors,
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode result")
		}

		fmt.Fprintln(out, string(data))
	} else {
		if !result.OK() {
			fmt.Fprintln(out, report.Errors(result.Errors, theme))
		}

		if len(warnings) > 0 {
			fmt.Fprintln(out, report.Warnings(warnings, theme))
		}

		fmt.Fprintln(out, report.Summary(len(result.Errors), len(warnings), theme))

		if validateSummary && result.OK() {
			fmt.Fprintln(out)
			writeSummary(out, result.Config)
		}
	}

	if !result.OK() {
		return errReported
	}

	return nil
}
