package config

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

var hexColor = regexp.MustCompile(config.HexColorPattern)

// maxCount bounds leaves stored in int fields.
const maxCount = min(config.MaxSafeInteger, math.MaxInt)

// ValidationResult is the outcome of validating a candidate configuration.
type ValidationResult struct {
	IsValid bool                     `json:"isValid"`
	Errors  []config.ValidationError `json:"errors"`
}

// Err returns the errors as a single error, or nil when valid.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}

	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}

	return combineErrors(errs)
}

// errorList accumulates validation errors across sections.
type errorList []config.ValidationError

func (l *errorList) add(path, message string, value any) {
	*l = append(*l, config.ValidationError{Path: path, Message: message, Value: value})
}

func rootResult(message string) ValidationResult {
	return ValidationResult{
		IsValid: false,
		Errors:  []config.ValidationError{{Path: config.PathRoot, Message: message}},
	}
}

// ValidateConfig checks an untrusted candidate against the configuration schema.
// It never panics and never stops at the first failure.
func ValidateConfig(candidate any) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = rootResult(fmt.Sprintf("Validation error: %v", r))
		}
	}()

	root, ok, err := asObject(candidate)
	if err != nil {
		return rootResult("Validation error: " + err.Error())
	}

	if !ok {
		return rootResult("Configuration must be an object")
	}

	var errs errorList

	for _, name := range config.Sections {
		raw, present := root[name]
		if !present || isNil(raw) {
			errs.add(name, name+" is missing", nil)

			continue
		}

		section, isMap, err := asObject(raw)
		if err != nil && !errors.Is(err, ErrNotObject) {
			return rootResult("Validation error: " + err.Error())
		}

		if !isMap {
			errs.add(name, name+" must be an object", raw)

			continue
		}

		sectionValidators[name](section, &errs)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// IsValid reports whether candidate passes validation.
func IsValid(candidate any) bool {
	return ValidateConfig(candidate).IsValid
}

var sectionValidators = map[string]func(map[string]any, *errorList){
	config.SectionDefaults:      validateDefaults,
	config.SectionValidation:    validateValidation,
	config.SectionStyling:       validateStyling,
	config.SectionLabels:        validateLabels,
	config.SectionFeatures:      validateFeatures,
	config.SectionAnimations:    validateAnimations,
	config.SectionAccessibility: validateAccessibility,
}

// asObject returns candidate as a fragment tree. Typed configurations and
// other map or struct shapes are normalized; scalars and slices are not objects.
// A map[string]any is returned as is and its nested values are normalized
// section by section.
func asObject(candidate any) (map[string]any, bool, error) {
	if isNil(candidate) {
		return nil, false, nil
	}

	if m, ok := candidate.(map[string]any); ok {
		return m, true, nil
	}

	v := reflect.ValueOf(candidate)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() != reflect.Map && v.Kind() != reflect.Struct {
		return nil, false, nil
	}

	m, err := ToMap(candidate)
	if err != nil {
		return nil, false, err
	}

	return m, true, nil
}

func validateDefaults(section map[string]any, errs *errorList) {
	const p = config.SectionDefaults

	checkEnum(section, p, "variant", config.Strings(config.Variants), errs)
	checkEnum(section, p, "size", config.Strings(config.Sizes), errs)
	checkEnum(section, p, "radius", config.Strings(config.Radii), errs)
	checkEnum(section, p, "theme", config.Strings(config.Themes), errs)
	checkInt(section, p, "maxSize", 0, config.MaxSafeInteger, errs)
	checkInt(section, p, "maxFiles", 1, maxCount, errs)
	checkBool(section, p, "multiple", false, errs)
	checkBool(section, p, "disabled", false, errs)
}

func validateValidation(section map[string]any, errs *errorList) {
	const p = config.SectionValidation

	maxSize, maxOK := checkInt(section, p, "maxSize", 0, config.MaxSafeInteger, errs)
	minSize, minOK := checkInt(section, p, "minSize", 0, config.MaxSafeInteger, errs)

	if maxOK && minOK && minSize > maxSize {
		errs.add(p+".minSize", "minSize must not exceed maxSize", section["minSize"])
	}

	checkInt(section, p, "maxFiles", 1, maxCount, errs)
	checkStringArray(section, p, "allowedTypes", errs)
	checkStringArray(section, p, "allowedExtensions", errs)

	maxWidth, maxWOK := checkInt(section, p, "maxWidth", 1, maxCount, errs)
	maxHeight, maxHOK := checkInt(section, p, "maxHeight", 1, maxCount, errs)
	minWidth, minWOK := checkInt(section, p, "minWidth", 1, maxCount, errs)
	minHeight, minHOK := checkInt(section, p, "minHeight", 1, maxCount, errs)

	if maxWOK && minWOK && minWidth > maxWidth {
		errs.add(p+".minWidth", "minWidth must not exceed maxWidth", section["minWidth"])
	}

	if maxHOK && minHOK && minHeight > maxHeight {
		errs.add(p+".minHeight", "minHeight must not exceed maxHeight", section["minHeight"])
	}
}

func validateStyling(section map[string]any, errs *errorList) {
	const p = config.SectionStyling

	checkEnum(section, p, "theme", config.Strings(config.Themes), errs)

	if colors, ok := subObject(section, p, "colors", errs); ok {
		for _, name := range sortedKeys(colors) {
			value := colors[name]
			if isNil(value) {
				continue
			}

			s, isString := value.(string)
			if !isString || !hexColor.MatchString(s) {
				errs.add(
					p+".colors."+name,
					fmt.Sprintf("colors.%s must be a hex color like #1a2b3c", name),
					value,
				)
			}
		}
	}

	if borders, ok := subObject(section, p, "borders", errs); ok {
		checkInt(borders, p+".borders", "width", 0, maxCount, errs)
		checkEnum(borders, p+".borders", "style", config.Strings(config.BorderStyles), errs)
		checkString(borders, p+".borders", "radius", false, errs)
	}

	if spacing, ok := subObject(section, p, "spacing", errs); ok {
		checkString(spacing, p+".spacing", "padding", false, errs)
		checkString(spacing, p+".spacing", "gap", false, errs)
	}
}

func validateLabels(section map[string]any, errs *errorList) {
	for _, key := range config.LabelKeys {
		checkString(section, config.SectionLabels, key, true, errs)
	}
}

func validateFeatures(section map[string]any, errs *errorList) {
	for _, key := range config.FeatureKeys {
		checkBool(section, config.SectionFeatures, key, true, errs)
	}
}

func validateAccessibility(section map[string]any, errs *errorList) {
	for _, key := range config.AccessibilityKeys {
		checkBool(section, config.SectionAccessibility, key, true, errs)
	}
}

func validateAnimations(section map[string]any, errs *errorList) {
	const p = config.SectionAnimations

	checkBool(section, p, "enabled", false, errs)
	checkString(section, p, "easing", false, errs)

	value, present := section["duration"]
	if !present || isNil(value) {
		return
	}

	n, ok := asNumber(value)

	switch {
	case !ok:
		errs.add(p+".duration", "duration must be a number", value)
	case n != math.Trunc(n):
		errs.add(p+".duration", "duration must be a whole number", value)
	case n < 0 || n > MaxAnimationDuration:
		errs.add(
			p+".duration",
			fmt.Sprintf("duration must be between 0 and %d", MaxAnimationDuration),
			value,
		)
	}
}

func checkEnum(section map[string]any, prefix, key string, allowed []string, errs *errorList) {
	value, present := section[key]
	if !present || isNil(value) {
		return
	}

	s, ok := value.(string)
	if ok && slices.Contains(allowed, s) {
		return
	}

	errs.add(
		prefix+"."+key,
		fmt.Sprintf("Invalid %s %v. Must be one of: %s", key, describe(value), strings.Join(allowed, ", ")),
		value,
	)
}

// checkMin validates an optional number with a lower bound and returns it
// when it is present and numeric.
func checkMin(section map[string]any, prefix, key string, minimum float64, errs *errorList) (float64, bool) {
	value, present := section[key]
	if !present || isNil(value) {
		return 0, false
	}

	n, ok := asNumber(value)
	if !ok {
		errs.add(prefix+"."+key, key+" must be a number", value)

		return 0, false
	}

	if n < minimum {
		errs.add(prefix+"."+key, fmt.Sprintf("%s must be at least %g", key, minimum), value)

		return n, false
	}

	return n, true
}

// checkInt validates an optional integer leaf: a whole number between
// minimum and maximum.
func checkInt(
	section map[string]any,
	prefix, key string,
	minimum, maximum float64,
	errs *errorList,
) (float64, bool) {
	n, ok := checkMin(section, prefix, key, minimum, errs)
	if !ok {
		return n, false
	}

	value := section[key]

	if n != math.Trunc(n) {
		errs.add(prefix+"."+key, key+" must be a whole number", value)

		return n, false
	}

	if n > maximum {
		errs.add(prefix+"."+key, fmt.Sprintf("%s must be at most %.0f", key, maximum), value)

		return n, false
	}

	return n, true
}

func checkString(section map[string]any, prefix, key string, required bool, errs *errorList) {
	value, present := section[key]
	if !present || isNil(value) {
		if required {
			errs.add(prefix+"."+key, fmt.Sprintf("%s.%s is required", prefix, key), nil)
		}

		return
	}

	if _, ok := value.(string); !ok {
		errs.add(prefix+"."+key, fmt.Sprintf("%s.%s must be a string", prefix, key), value)
	}
}

func checkBool(section map[string]any, prefix, key string, required bool, errs *errorList) {
	value, present := section[key]
	if !present || isNil(value) {
		if required {
			errs.add(prefix+"."+key, fmt.Sprintf("%s.%s is required", prefix, key), nil)
		}

		return
	}

	if _, ok := value.(bool); !ok {
		errs.add(prefix+"."+key, fmt.Sprintf("%s.%s must be a boolean", prefix, key), value)
	}
}

func checkStringArray(section map[string]any, prefix, key string, errs *errorList) {
	value, present := section[key]
	if !present || isNil(value) {
		return
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		errs.add(prefix+"."+key, key+" must be an array of strings", value)

		return
	}

	for i := range rv.Len() {
		if _, ok := rv.Index(i).Interface().(string); !ok {
			errs.add(
				fmt.Sprintf("%s.%s.%d", prefix, key, i),
				key+" must contain only strings",
				rv.Index(i).Interface(),
			)
		}
	}
}

// subObject returns a nested optional object, reporting non-object values.
func subObject(section map[string]any, prefix, key string, errs *errorList) (map[string]any, bool) {
	value, present := section[key]
	if !present || isNil(value) {
		return nil, false
	}

	m, ok, err := asObject(value)
	if err != nil || !ok {
		errs.add(prefix+"."+key, key+" must be an object", value)

		return nil, false
	}

	return m, true
}

// asNumber accepts every Go numeric kind; NaN and infinities are rejected.
func asNumber(value any) (float64, bool) {
	var n float64

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		n = rv.Float()
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}

	return n, true
}

func describe(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", value)
}

// isNil treats untyped nil and nil pointers, maps, slices and interfaces alike.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func combineErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
