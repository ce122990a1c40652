package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/loader"
	"github.com/smykla-skalski/uploadkit/internal/xdg"
)

// errInvalidSet is returned for --set values that are not key=value pairs.
var errInvalidSet = errors.New("invalid --set value, expected key=value")

// overrideFlags are the layering flags shared by commands that load a source.
type overrideFlags struct {
	sets   []string
	useEnv bool
}

func (o *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(
		&o.sets,
		"set",
		nil,
		"Override a field, e.g. --set defaults.maxFiles=3 (repeatable, values are JSON or plain strings)",
	)
	cmd.Flags().BoolVar(
		&o.useEnv,
		"env",
		true,
		"Apply "+internalconfig.EnvPrefix+"* environment variables",
	)
}

func (o *overrideFlags) reset() {
	o.sets = nil
	o.useEnv = true
}

// fragment returns the environment and --set overrides as one fragment,
// --set winning over the environment.
func (o *overrideFlags) fragment() (map[string]any, error) {
	merged := map[string]any{}

	if o.useEnv {
		envFragment, err := internalconfig.EnvFragment(nil)
		if err != nil {
			return nil, err
		}

		merged = internalconfig.DeepMerge(merged, envFragment)
	}

	sets, err := parseSets(o.sets)
	if err != nil {
		return nil, err
	}

	return internalconfig.DeepMerge(merged, sets), nil
}

// parseSets turns key=value pairs into a nested fragment. Keys are dotted
// paths.
func parseSets(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return map[string]any{}, nil
	}

	flat := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")

		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Wrapf(errInvalidSet, "%q", pair)
		}

		flat[key] = parseSetValue(raw)
	}

	k := koanf.New(internalconfig.PathDelim)
	if err := k.Load(confmap.Provider(flat, internalconfig.PathDelim), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load --set values")
	}

	return k.Raw(), nil
}

func parseSetValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}

	return value
}

func newLoader() (*loader.Loader, error) {
	return loader.New(loader.Options{Logger: log})
}

// loadSource loads source and applies the overrides on top of it. Without
// overrides the source goes through the loader unchanged.
func loadSource(ctx context.Context, l *loader.Loader, source string, o *overrideFlags) (loader.LoadResult, error) {
	overrides, err := o.fragment()
	if err != nil {
		return loader.LoadResult{}, err
	}

	if len(overrides) == 0 {
		return l.Load(ctx, source), nil
	}

	base := map[string]any{}

	if strings.TrimSpace(source) != "" {
		base, err = l.ReadFragment(ctx, source)
		if err != nil {
			return loader.LoadResult{}, err
		}
	}

	log.Debug("applying overrides", "fields", len(internalconfig.LeafPaths(overrides)))

	return l.Load(ctx, internalconfig.DeepMerge(base, overrides)), nil
}

// sourceArg returns the source named on the command line, or the discovered
// configuration file when there is none. An empty result means defaults.
func sourceArg(args []string) string {
	if len(args) > 0 {
		return expandSource(args[0])
	}

	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	path, ok := xdg.FindConfig(wd)
	if !ok {
		return ""
	}

	log.Debug("using discovered configuration", "path", path)

	return path
}

// expandSource resolves a leading ~ in file sources.
func expandSource(source string) string {
	if loader.IsRemote(source) || strings.HasPrefix(strings.TrimSpace(source), "{") {
		return source
	}

	return xdg.ExpandPathSilent(source)
}
