package config

import (
	"fmt"

	"github.com/knadh/koanf/maps"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// Builder accumulates a partial configuration through chained setters.
// Nothing is validated until Build or Validate. A Builder is owned by a
// single caller and must not be shared between goroutines.
type Builder struct {
	partial map[string]any
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{partial: map[string]any{}}
}

// set merges value at the given path into the accumulator.
func (b *Builder) set(value any, path ...string) *Builder {
	fragment := map[string]any{}
	current := fragment

	for _, key := range path[:len(path)-1] {
		next := map[string]any{}
		current[key] = next
		current = next
	}

	current[path[len(path)-1]] = value
	b.partial = DeepMerge(b.partial, fragment)

	return b
}

// Variant sets defaults.variant.
func (b *Builder) Variant(v config.Variant) *Builder {
	return b.set(string(v), config.SectionDefaults, "variant")
}

// Size sets defaults.size.
func (b *Builder) Size(s config.Size) *Builder {
	return b.set(string(s), config.SectionDefaults, "size")
}

// Radius sets defaults.radius.
func (b *Builder) Radius(r config.Radius) *Builder {
	return b.set(string(r), config.SectionDefaults, "radius")
}

// Theme sets the widget theme in both defaults and styling.
func (b *Builder) Theme(t config.Theme) *Builder {
	b.set(string(t), config.SectionDefaults, "theme")

	return b.set(string(t), config.SectionStyling, "theme")
}

// MaxSize sets the maximum file size in both defaults and validation.
func (b *Builder) MaxSize(bytes int64) *Builder {
	b.set(bytes, config.SectionDefaults, "maxSize")

	return b.set(bytes, config.SectionValidation, "maxSize")
}

// MinSize sets validation.minSize.
func (b *Builder) MinSize(bytes int64) *Builder {
	return b.set(bytes, config.SectionValidation, "minSize")
}

// MaxFiles sets the file count limit in both defaults and validation.
func (b *Builder) MaxFiles(n int) *Builder {
	b.set(n, config.SectionDefaults, "maxFiles")

	return b.set(n, config.SectionValidation, "maxFiles")
}

// Multiple sets defaults.multiple.
func (b *Builder) Multiple(enabled bool) *Builder {
	return b.set(enabled, config.SectionDefaults, "multiple")
}

// Disabled sets defaults.disabled.
func (b *Builder) Disabled(disabled bool) *Builder {
	return b.set(disabled, config.SectionDefaults, "disabled")
}

// AllowedTypes replaces validation.allowedTypes.
func (b *Builder) AllowedTypes(types ...string) *Builder {
	return b.set(append([]string{}, types...), config.SectionValidation, "allowedTypes")
}

// AllowedExtensions replaces validation.allowedExtensions.
func (b *Builder) AllowedExtensions(exts ...string) *Builder {
	return b.set(append([]string{}, exts...), config.SectionValidation, "allowedExtensions")
}

// MaxDimensions sets the maximum image width and height.
func (b *Builder) MaxDimensions(width, height int) *Builder {
	b.set(width, config.SectionValidation, "maxWidth")

	return b.set(height, config.SectionValidation, "maxHeight")
}

// MinDimensions sets the minimum image width and height.
func (b *Builder) MinDimensions(width, height int) *Builder {
	b.set(width, config.SectionValidation, "minWidth")

	return b.set(height, config.SectionValidation, "minHeight")
}

// Colors merges the non-empty color tokens into styling.colors.
func (b *Builder) Colors(colors config.ColorsConfig) *Builder {
	return b.setSection(colors, config.SectionStyling, "colors")
}

// Borders replaces styling.borders.
func (b *Builder) Borders(borders config.BordersConfig) *Builder {
	return b.setSection(borders, config.SectionStyling, "borders")
}

// StylingTheme sets styling.theme only.
func (b *Builder) StylingTheme(t config.Theme) *Builder {
	return b.set(string(t), config.SectionStyling, "theme")
}

// Labels merges the given labels by key.
func (b *Builder) Labels(labels map[string]string) *Builder {
	return b.setSection(labels, config.SectionLabels)
}

// Features merges the given feature toggles by key.
func (b *Builder) Features(features map[string]bool) *Builder {
	return b.setSection(features, config.SectionFeatures)
}

// Accessibility merges the given accessibility toggles by key.
func (b *Builder) Accessibility(toggles map[string]bool) *Builder {
	return b.setSection(toggles, config.SectionAccessibility)
}

// Animations replaces the animations section.
func (b *Builder) Animations(animations config.AnimationsConfig) *Builder {
	return b.setSection(animations, config.SectionAnimations)
}

// Set assigns value at a dotted path such as "styling.borders.width".
func (b *Builder) Set(path string, value any) *Builder {
	b.partial = DeepMerge(b.partial, maps.Unflatten(map[string]any{path: value}, PathDelim))

	return b
}

// setSection converts a typed or map value into a fragment and merges it at path.
func (b *Builder) setSection(value any, path ...string) *Builder {
	fragment, err := ToMap(value)
	if err != nil {
		// Every accepted argument type serializes; reaching this is a programming error.
		panic(fmt.Sprintf("builder: %v", err))
	}

	return b.set(fragment, path...)
}

// Reset drops everything accumulated so far.
func (b *Builder) Reset() *Builder {
	b.partial = map[string]any{}

	return b
}

// BuildPartial returns a normalized copy of the accumulated fragment.
func (b *Builder) BuildPartial() map[string]any {
	partial, err := ToMap(b.partial)
	if err != nil {
		return maps.Copy(b.partial)
	}

	return partial
}

// Build merges the accumulated fragment onto the defaults. The result is
// complete but not necessarily valid; call Validate to check it.
func (b *Builder) Build() (*config.FileUploadConfig, error) {
	return MergeConfig(b.partial)
}

// Validate merges the accumulated fragment onto the defaults and validates
// the result. It never panics.
func (b *Builder) Validate() (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = rootResult(fmt.Sprintf("Validation error: %v", r))
		}
	}()

	return ValidateConfig(DeepMerge(DefaultMap(), b.BuildPartial()))
}
