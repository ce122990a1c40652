package config

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// Source labels the layer that last set a leaf field.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceProps   Source = "props"
)

// MergeResult is the outcome of merging configuration layers.
type MergeResult struct {
	// Config is the merged configuration. It is always usable but may be
	// invalid; Warnings explains why.
	Config *config.FileUploadConfig

	// Raw is the merged fragment tree before decoding.
	Raw map[string]any

	// Sources maps every leaf path to the layer that last set it.
	Sources map[string]Source

	Warnings []string
}

// PrioritizedSource is one input of MergeConfigurationsWithConflictResolution.
type PrioritizedSource struct {
	Config   map[string]any
	Priority int
	Source   Source
}

// ConflictValue is one value observed for a path.
type ConflictValue struct {
	Source Source `json:"source"`
	Value  any    `json:"value"`
}

// Conflict records every distinct value seen for one path, in application order.
type Conflict struct {
	Path   string          `json:"path"`
	Values []ConflictValue `json:"values"`
}

// ConflictMergeResult is a MergeResult with the conflicts found while merging.
type ConflictMergeResult struct {
	MergeResult

	Conflicts []Conflict
}

// layer is one fragment applied on top of the defaults.
type layer struct {
	source   Source
	fragment map[string]any
}

// MergeConfigurations merges the defaults, a file fragment and a props
// fragment, in that order. Props always win over the file on shared leaves.
// Either fragment may be nil.
func MergeConfigurations(fileConfig, propsConfig map[string]any) MergeResult {
	var (
		layers   []layer
		warnings []string
	)

	for _, in := range []layer{
		{source: SourceFile, fragment: fileConfig},
		{source: SourceProps, fragment: propsConfig},
	} {
		if in.fragment == nil {
			continue
		}

		fragment, err := ToMap(in.fragment)
		if err != nil {
			warnings = append(warnings, string(in.source)+" config ignored: "+err.Error())

			continue
		}

		warnings = append(warnings, unknownSectionWarnings(in.source, fragment)...)
		layers = append(layers, layer{source: in.source, fragment: fragment})
	}

	merged := DefaultMap()
	sources := labelLeaves(merged, SourceDefault, nil)

	for _, l := range layers {
		merged = DeepMerge(merged, l.fragment)
		sources = labelLeaves(l.fragment, l.source, sources)
	}

	return finish(merged, sources, warnings)
}

// MergeConfigurationsWithConflictResolution applies any number of fragments
// on top of the defaults in ascending priority order (ties keep input
// order) and records a conflict whenever a leaf changes value.
//
// The first record for a path starts with the value that was overridden and
// the layer that set it; each later differing value is appended.
func MergeConfigurationsWithConflictResolution(inputs []PrioritizedSource) ConflictMergeResult {
	ordered := slices.Clone(inputs)
	slices.SortStableFunc(ordered, func(a, b PrioritizedSource) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	var (
		warnings  []string
		conflicts []Conflict
	)

	merged := DefaultMap()
	sources := labelLeaves(merged, SourceDefault, nil)
	index := map[string]int{}

	for _, in := range ordered {
		if in.Config == nil {
			continue
		}

		fragment, err := ToMap(in.Config)
		if err != nil {
			warnings = append(warnings, string(in.Source)+" config ignored: "+err.Error())

			continue
		}

		warnings = append(warnings, unknownSectionWarnings(in.Source, fragment)...)

		leaves := leafValues(fragment)

		for _, path := range sortedKeys(leaves) {
			value := leaves[path]

			prev, exists := Lookup(merged, path)
			if !exists || reflect.DeepEqual(prev, value) {
				continue
			}

			i, seen := index[path]
			if !seen {
				conflicts = append(conflicts, Conflict{
					Path:   path,
					Values: []ConflictValue{{Source: sources[path], Value: prev}},
				})
				i = len(conflicts) - 1
				index[path] = i
			}

			conflicts[i].Values = append(conflicts[i].Values, ConflictValue{
				Source: in.Source,
				Value:  value,
			})
		}

		merged = DeepMerge(merged, fragment)
		sources = labelLeaves(fragment, in.Source, sources)
	}

	return ConflictMergeResult{
		MergeResult: finish(merged, sources, warnings),
		Conflicts:   conflicts,
	}
}

// labelLeaves marks every leaf of fragment as set by source.
func labelLeaves(fragment map[string]any, source Source, sources map[string]Source) map[string]Source {
	if sources == nil {
		sources = map[string]Source{}
	}

	for _, path := range LeafPaths(fragment) {
		sources[path] = source
	}

	return sources
}

// finish validates and decodes the merged tree and prunes labels of leaves
// that a later layer replaced with a different shape.
func finish(merged map[string]any, sources map[string]Source, warnings []string) MergeResult {
	final := leafValues(merged)

	for path := range sources {
		if _, ok := final[path]; !ok {
			delete(sources, path)
		}
	}

	if result := ValidateConfig(merged); !result.IsValid {
		warnings = append(warnings,
			"Merged configuration has validation errors: "+config.JoinMessages(result.Errors))
	}

	cfg, err := Decode(merged)
	if err != nil {
		warnings = append(warnings, "Merged configuration could not be decoded, using defaults: "+err.Error())
		cfg = DefaultConfig()
	}

	return MergeResult{
		Config:   cfg,
		Raw:      merged,
		Sources:  sources,
		Warnings: warnings,
	}
}

func unknownSectionWarnings(source Source, fragment map[string]any) []string {
	var warnings []string

	for _, key := range sortedKeys(fragment) {
		if key == "version" || slices.Contains(config.Sections, key) {
			continue
		}

		warnings = append(warnings, string(source)+" config has unknown section \""+key+"\"")
	}

	return warnings
}
