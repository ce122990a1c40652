package config

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var (
	// ErrNotObject is returned when a value does not serialize to a JSON object.
	ErrNotObject = errors.New("value is not an object")

	// ErrNotInteger is returned when a number cannot be stored in an integer
	// field without losing its fraction or overflowing.
	ErrNotInteger = errors.New("value is not a representable integer")
)

// ToMap normalizes v into a fragment tree through a JSON round trip.
// Numbers become float64, nested maps become map[string]any and nil
// pointers tagged omitempty disappear.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize value")
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to normalize value")
	}

	m, ok := out.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrNotObject, "got %T", v)
	}

	return m, nil
}

// DecoderConfig returns the mapstructure configuration used to turn fragment
// trees into typed configurations. Keys follow the JSON tags and type
// mismatches are reported instead of coerced.
func DecoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		TagName:          "json",
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(wholeNumberHookFunc()),
		WeaklyTypedInput: false,
		Result:           result,
	}
}

// wholeNumberHookFunc rejects floats that would be truncated or wrap around
// when stored in an integer field.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func wholeNumberHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
			return data, nil
		}

		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return data, nil
		}

		n := reflect.ValueOf(data).Float()

		if n != math.Trunc(n) {
			return nil, errors.Wrapf(ErrNotInteger, "%v has a fractional part", n)
		}

		if n < math.MinInt64 || n >= math.MaxInt64 || reflect.Zero(t).OverflowInt(int64(n)) {
			return nil, errors.Wrapf(ErrNotInteger, "%v overflows %s", n, t)
		}

		return data, nil
	}
}

// Decode converts a fragment tree into a typed configuration.
func Decode(m map[string]any) (*config.FileUploadConfig, error) {
	var cfg config.FileUploadConfig

	decoder, err := mapstructure.NewDecoder(DecoderConfig(&cfg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(m); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	return &cfg, nil
}
