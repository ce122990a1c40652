package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/export"
	"github.com/smykla-skalski/uploadkit/internal/loader"
)

const diffContextLines = 3

var (
	diffOverrides overrideFlags
	diffFormat    string
	diffExitCode  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <source> [other]",
	Short: "Show how a configuration differs from the defaults or another one",
	Long: `Print a unified diff between two fully merged configurations.

With a single source the diff is taken against the defaults. Overrides
apply to the last source only.

Examples:
  uploadkit diff upload.json
  uploadkit diff staging.toml production.toml --format yaml
  uploadkit diff upload.json --set defaults.size=lg --exit-code`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	diffOverrides.register(diffCmd)
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", string(export.FormatYAML), "Diff format: "+formatNames())
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 when the configurations differ")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(diffFormat)
	if err != nil {
		return err
	}

	l, err := newLoader()
	if err != nil {
		return err
	}

	fromName, toName := "defaults", args[0]

	sources := make([]string, len(args))
	for i, arg := range args {
		sources[i] = expandSource(arg)
	}

	var before, after loader.LoadResult

	if len(args) == 1 {
		before = l.Load(cmd.Context(), nil)
		after, err = loadSource(cmd.Context(), l, sources[0], &diffOverrides)
	} else {
		fromName, toName = args[0], args[1]
		before = l.Load(cmd.Context(), sources[0])
		if err := failOnErrors(before); err != nil {
			return err
		}

		after, err = loadSource(cmd.Context(), l, sources[1], &diffOverrides)
	}

	if err != nil {
		return err
	}

	if err := failOnErrors(after); err != nil {
		return err
	}

	a, err := export.Export(before.Config, format)
	if err != nil {
		return err
	}

	b, err := export.Export(after.Config, format)
	if err != nil {
		return err
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  diffContextLines,
	})
	if err != nil {
		return errors.Wrap(err, "failed to compute diff")
	}

	if text == "" {
		fmt.Fprintln(cmd.OutOrStdout(), theme.Muted.Render("No differences"))

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), colorizeDiff(text))

	if diffExitCode {
		return errReported
	}

	return nil
}

// colorizeDiff styles added and removed lines.
func colorizeDiff(text string) string {
	var b strings.Builder

	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(theme.Header.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(theme.Valid.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(theme.Invalid.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(theme.Source.Render(line))
		default:
			b.WriteString(line)
		}

		b.WriteByte('\n')
	}

	return b.String()
}
