package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/export"
	"github.com/smykla-skalski/uploadkit/internal/report"
)

// Layer labels and priorities of the merge command. Files are applied in
// argument order below the props layer.
const (
	sourceEnv   internalconfig.Source = "env"
	sourceFlags internalconfig.Source = "flags"

	priorityFiles = 10
	priorityProps = 100
	priorityEnv   = 200
	priorityFlags = 300
)

var (
	mergeProps       string
	mergeSets        []string
	mergeUseEnv      bool
	mergeFormat      string
	mergeOutput      string
	mergeShowSources bool
	mergeAllSources  bool
	mergeConflicts   bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Merge configuration layers and explain the result",
	Long: `Merge configuration files, props, environment variables and --set
overrides on top of the defaults, in that order of precedence.

Null values never override. Arrays are replaced, objects are merged.

Examples:
  uploadkit merge base.json team.toml
  uploadkit merge upload.json --props '{"defaults": {"size": "lg"}}' --sources
  uploadkit merge base.yaml override.yaml --conflicts --format yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeProps, "props", "", "Props layer: a file, URL or inline JSON")
	mergeCmd.Flags().StringArrayVar(&mergeSets, "set", nil, "Override a field, e.g. --set defaults.maxFiles=3")
	mergeCmd.Flags().BoolVar(&mergeUseEnv, "env", true, "Apply "+internalconfig.EnvPrefix+"* environment variables")
	mergeCmd.Flags().StringVarP(&mergeFormat, "format", "f", "", "Output format: "+formatNames())
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write to file instead of stdout")
	mergeCmd.Flags().BoolVar(&mergeShowSources, "sources", false, "Show which layer set each field")
	mergeCmd.Flags().BoolVar(&mergeAllSources, "all", false, "With --sources, include fields left at their default")
	mergeCmd.Flags().BoolVar(&mergeConflicts, "conflicts", false, "Show fields set to different values by several layers")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(mergeFormat, mergeOutput)
	if err != nil {
		return err
	}

	inputs, err := mergeInputs(cmd, args)
	if err != nil {
		return err
	}

	result := internalconfig.MergeConfigurationsWithConflictResolution(inputs)

	log.Debug("layers merged",
		"layers", len(inputs),
		"conflicts", len(result.Conflicts),
		"warnings", len(result.Warnings),
	)

	if mergeShowSources {
		fmt.Fprintln(os.Stderr, report.Sources(result.Raw, result.Sources, mergeAllSources, theme))
	}

	if mergeConflicts && len(result.Conflicts) > 0 {
		fmt.Fprintln(os.Stderr, report.Conflicts(result.Conflicts, theme))
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr, report.Warnings(result.Warnings, theme))
	}

	if mergeOutput != "" {
		if err := export.WriteFile(mergeOutput, result.Config, format); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", mergeOutput)

		return nil
	}

	content, err := export.Export(result.Config, format)
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), content)

	return nil
}

func mergeInputs(cmd *cobra.Command, files []string) ([]internalconfig.PrioritizedSource, error) {
	l, err := newLoader()
	if err != nil {
		return nil, err
	}

	inputs := make([]internalconfig.PrioritizedSource, 0, len(files)+3)

	for i, file := range files {
		fragment, err := l.ReadFragment(cmd.Context(), file)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, internalconfig.PrioritizedSource{
			Config:   fragment,
			Priority: priorityFiles + i,
			Source:   internalconfig.Source("file:" + filepath.Base(file)),
		})
	}

	if mergeProps != "" {
		fragment, err := l.ReadFragment(cmd.Context(), mergeProps)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, internalconfig.PrioritizedSource{
			Config:   fragment,
			Priority: priorityProps,
			Source:   internalconfig.SourceProps,
		})
	}

	if mergeUseEnv {
		fragment, err := internalconfig.EnvFragment(nil)
		if err != nil {
			return nil, err
		}

		if len(fragment) > 0 {
			inputs = append(inputs, internalconfig.PrioritizedSource{
				Config:   fragment,
				Priority: priorityEnv,
				Source:   sourceEnv,
			})
		}
	}

	sets, err := parseSets(mergeSets)
	if err != nil {
		return nil, err
	}

	if len(sets) > 0 {
		inputs = append(inputs, internalconfig.PrioritizedSource{
			Config:   sets,
			Priority: priorityFlags,
			Source:   sourceFlags,
		})
	}

	return inputs, nil
}
