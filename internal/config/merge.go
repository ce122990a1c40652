package config

import (
	"slices"
	"strings"

	"github.com/knadh/koanf/maps"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// PathDelim separates segments of a leaf path.
const PathDelim = "."

// DeepMerge overlays source onto a copy of target and returns the result.
// Neither argument is modified.
//
// Null policy: nil values in source are skipped at every depth, so the
// target keeps its prior value. Nested maps merge key by key (a missing or
// non-map target side starts from an empty map) and every other value,
// arrays included, replaces the target value wholesale.
func DeepMerge(target, source map[string]any) map[string]any {
	out := maps.Copy(target)
	if out == nil {
		out = map[string]any{}
	}

	if len(source) == 0 {
		return out
	}

	maps.Merge(pruneNil(maps.Copy(source)), out)

	return out
}

// MergeConfig merges a partial configuration onto the defaults and decodes
// the result. The result is not validated.
func MergeConfig(partial map[string]any) (*config.FileUploadConfig, error) {
	normalized := map[string]any{}

	if len(partial) > 0 {
		var err error

		normalized, err = ToMap(partial)
		if err != nil {
			return nil, err
		}
	}

	return Decode(DeepMerge(DefaultMap(), normalized))
}

// pruneNil removes nil values from m in place, descending into nested maps.
func pruneNil(m map[string]any) map[string]any {
	for key, value := range m {
		if isNil(value) {
			delete(m, key)

			continue
		}

		if nested, ok := value.(map[string]any); ok {
			pruneNil(nested)
		}
	}

	return m
}

// LeafPaths returns the sorted dotted paths of every non-nil leaf in m.
// Arrays are leaves; empty objects are not.
func LeafPaths(m map[string]any) []string {
	leaves := leafValues(m)

	return sortedKeys(leaves)
}

// leafValues flattens m into dotted leaf paths, skipping nils and empty objects.
func leafValues(m map[string]any) map[string]any {
	if len(m) == 0 {
		return map[string]any{}
	}

	flat, _ := maps.Flatten(pruneNil(maps.Copy(m)), nil, PathDelim)

	for path, value := range flat {
		if nested, ok := value.(map[string]any); ok && len(nested) == 0 {
			delete(flat, path)
		}
	}

	return flat
}

// Lookup returns the value at a dotted path and whether it exists.
func Lookup(m map[string]any, path string) (any, bool) {
	value := maps.Search(m, strings.Split(path, PathDelim))

	return value, value != nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
