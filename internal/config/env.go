package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "FILE_UPLOAD_"

// ErrInvalidEnvValue is returned when an environment value does not match
// the type of the leaf it targets.
var ErrInvalidEnvValue = errors.New("invalid environment value")

// optionalLeaves are numeric leaves absent from the defaults.
var optionalLeaves = []string{
	"validation.maxWidth",
	"validation.maxHeight",
	"validation.minWidth",
	"validation.minHeight",
}

// EnvKey returns the environment variable name for a leaf path given as segments.
func EnvKey(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, strcase.ToScreamingSnake(segment))
	}

	return EnvPrefix + strings.Join(parts, "_")
}

// envIndex maps variable names back to their leaf path and the value that
// decides how the raw string is converted.
var envIndex = sync.OnceValue(func() map[string]envLeaf {
	defaults := DefaultMap()
	index := make(map[string]envLeaf)

	for path, value := range leafValues(defaults) {
		index[EnvKey(strings.Split(path, PathDelim))] = envLeaf{path: path, sample: value}
	}

	for _, path := range optionalLeaves {
		index[EnvKey(strings.Split(path, PathDelim))] = envLeaf{path: path, sample: float64(0)}
	}

	index[EnvKey([]string{"version"})] = envLeaf{path: "version", sample: config.CurrentVersion}

	return index
})

type envLeaf struct {
	path   string
	sample any
}

// EnvFragment reads FILE_UPLOAD_* variables and returns them as a partial
// configuration. Variables that match no known leaf are ignored. A nil
// environ reads the process environment.
func EnvFragment(environ func() []string) (map[string]any, error) {
	if environ == nil {
		environ = os.Environ
	}

	index := envIndex()

	var errs []error

	provider := env.Provider(PathDelim, env.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			leaf, ok := index[key]
			if !ok {
				return "", nil
			}

			converted, err := convertEnvValue(leaf.sample, value)
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "%s", key))

				return "", nil
			}

			return leaf.path, converted
		},
	})

	k := koanf.New(PathDelim)
	if err := k.Load(provider, nil); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	if err := combineErrors(errs); err != nil {
		return nil, err
	}

	return k.Raw(), nil
}

// convertEnvValue parses raw into the same kind as sample.
func convertEnvValue(sample any, raw string) (any, error) {
	switch sample.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidEnvValue, "expected boolean, got %q", raw)
		}

		return b, nil
	case float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidEnvValue, "expected number, got %q", raw)
		}

		return n, nil
	case []any:
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, errors.Wrapf(ErrInvalidEnvValue, "expected JSON array, got %q", raw)
		}

		return items, nil
	default:
		return raw, nil
	}
}
