package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/export"
	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const durationDisplayUnits = 2

var (
	defaultsFormat  string
	defaultsSummary bool
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration",
	Long: `Print the built-in default configuration that every source is merged onto.

Examples:
  uploadkit defaults
  uploadkit defaults --format toml > upload.toml
  uploadkit defaults --summary`,
	Args: cobra.NoArgs,
	RunE: runDefaults,
}

func init() {
	defaultsCmd.Flags().StringVarP(
		&defaultsFormat,
		"format", "f",
		string(export.FormatJSON),
		"Output format: "+formatNames(),
	)
	defaultsCmd.Flags().BoolVar(&defaultsSummary, "summary", false, "Print a human-readable summary instead")

	rootCmd.AddCommand(defaultsCmd)
}

func runDefaults(cmd *cobra.Command, _ []string) error {
	cfg := internalconfig.DefaultConfig()

	if defaultsSummary {
		writeSummary(cmd.OutOrStdout(), cfg)

		return nil
	}

	format, err := export.ParseFormat(defaultsFormat)
	if err != nil {
		return err
	}

	content, err := export.Export(cfg, format)
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), content)

	return nil
}

// writeSummary prints the fields people usually ask about, with sizes and
// durations in human units.
func writeSummary(w io.Writer, cfg *config.FileUploadConfig) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", theme.Header.Render(fmt.Sprintf("%-12s", label)), value)
	}

	version := cfg.Version
	if version == "" {
		version = config.CurrentVersion
	}

	row("Version", version)
	row("Widget", fmt.Sprintf("%s, size %s, radius %s, theme %s",
		cfg.Defaults.Variant, cfg.Defaults.Size, cfg.Defaults.Radius, cfg.Defaults.Theme))
	row("Files", fmt.Sprintf("%s per file, up to %d file(s)",
		sizeLimit(cfg.Validation.MaxSize), cfg.Validation.MaxFiles))

	if cfg.Validation.MinSize > 0 {
		row("Min size", humanize.IBytes(uint64(cfg.Validation.MinSize)))
	}

	row("Types", listOrAny(cfg.Validation.AllowedTypes))
	row("Extensions", listOrAny(cfg.Validation.AllowedExtensions))

	if cfg.Validation.HasDimensionRules() {
		row("Dimensions", dimensionRules(cfg.Validation))
	}

	row("Animations", animationSummary(cfg))
	row("Features", enabledToggles(cfg.Features, config.FeatureKeys))
	row("Accessible", enabledToggles(cfg.Accessibility, config.AccessibilityKeys))

	tokens := cfg.Styling.Colors.Tokens()
	for _, name := range config.ColorTokens {
		if hex, ok := tokens[name]; ok {
			row(name, theme.Swatch(hex))
		}
	}
}

func sizeLimit(bytes int64) string {
	if bytes <= 0 {
		return "no size limit"
	}

	return humanize.IBytes(uint64(bytes))
}

func listOrAny(items []string) string {
	if len(items) == 0 {
		return "any"
	}

	return strings.Join(items, ", ")
}

func dimensionRules(v config.ValidationConfig) string {
	bound := func(p *int) string {
		if p == nil {
			return "?"
		}

		return fmt.Sprint(*p)
	}

	var parts []string

	if v.MinWidth != nil || v.MinHeight != nil {
		parts = append(parts, "min "+bound(v.MinWidth)+"x"+bound(v.MinHeight))
	}

	if v.MaxWidth != nil || v.MaxHeight != nil {
		parts = append(parts, "max "+bound(v.MaxWidth)+"x"+bound(v.MaxHeight))
	}

	return strings.Join(parts, ", ")
}

func animationSummary(cfg *config.FileUploadConfig) string {
	if !cfg.AnimationsActive() {
		return "off"
	}

	d := time.Duration(cfg.Animations.Duration) * time.Millisecond

	return durafmt.Parse(d).LimitFirstN(durationDisplayUnits).String() + " " + cfg.Animations.Easing
}

func enabledToggles(section any, keys []string) string {
	toggles, err := internalconfig.ToMap(section)
	if err != nil {
		return "?"
	}

	var on []string

	for _, key := range keys {
		if enabled, _ := toggles[key].(bool); enabled {
			on = append(on, key)
		}
	}

	if len(on) == 0 {
		return "none"
	}

	return strings.Join(on, ", ")
}
