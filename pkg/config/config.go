// Package config provides the configuration schema types for uploadkit widgets.
package config

// CurrentVersion is the latest configuration schema version.
const CurrentVersion = "1.2.0"

// Section names of the root configuration, in declaration order.
const (
	SectionDefaults      = "defaults"
	SectionValidation    = "validation"
	SectionStyling       = "styling"
	SectionLabels        = "labels"
	SectionFeatures      = "features"
	SectionAnimations    = "animations"
	SectionAccessibility = "accessibility"
)

// Sections lists every required top-level section.
var Sections = []string{
	SectionDefaults,
	SectionValidation,
	SectionStyling,
	SectionLabels,
	SectionFeatures,
	SectionAnimations,
	SectionAccessibility,
}

// FileUploadConfig is the root configuration consumed by the upload widgets.
type FileUploadConfig struct {
	// Version is the schema version the configuration was written against.
	Version string `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Defaults holds the initial prop values of a widget instance.
	Defaults DefaultsConfig `json:"defaults" koanf:"defaults" toml:"defaults"`

	// Validation holds the file acceptance rules.
	Validation ValidationConfig `json:"validation" koanf:"validation" toml:"validation"`

	// Styling holds the visual theme tokens.
	Styling StylingConfig `json:"styling" koanf:"styling" toml:"styling"`

	// Labels holds every user-facing string.
	Labels LabelsConfig `json:"labels" koanf:"labels" toml:"labels"`

	// Features holds the behavior toggles.
	Features FeaturesConfig `json:"features" koanf:"features" toml:"features"`

	// Animations controls transition behavior.
	Animations AnimationsConfig `json:"animations" koanf:"animations" toml:"animations"`

	// Accessibility holds the assistive technology toggles.
	Accessibility AccessibilityConfig `json:"accessibility" koanf:"accessibility" toml:"accessibility"`
}

// DefaultsConfig contains the initial widget props.
type DefaultsConfig struct {
	// Variant selects the widget layout.
	Variant Variant `json:"variant" jsonschema:"enum=button,enum=dropzone,enum=preview,enum=image-only,enum=multi-file" koanf:"variant" toml:"variant"`

	// Size selects the widget size.
	Size Size `json:"size" jsonschema:"enum=sm,enum=md,enum=lg" koanf:"size" toml:"size"`

	// Radius selects the corner radius.
	Radius Radius `json:"radius" jsonschema:"enum=none,enum=sm,enum=md,enum=lg,enum=full" koanf:"radius" toml:"radius"`

	// Theme selects the color scheme.
	Theme Theme `json:"theme" jsonschema:"enum=light,enum=dark,enum=auto" koanf:"theme" toml:"theme"`

	// MaxSize is the maximum size of a single file in bytes.
	MaxSize int64 `json:"maxSize" jsonschema:"minimum=0" koanf:"maxSize" toml:"maxSize"`

	// MaxFiles is the maximum number of files accepted at once.
	MaxFiles int `json:"maxFiles" jsonschema:"minimum=1" koanf:"maxFiles" toml:"maxFiles"`

	// Multiple allows selecting more than one file.
	Multiple bool `json:"multiple" koanf:"multiple" toml:"multiple"`

	// Disabled renders the widget inert.
	Disabled bool `json:"disabled" koanf:"disabled" toml:"disabled"`
}

// AnimationsConfig controls widget transitions.
type AnimationsConfig struct {
	Enabled bool `json:"enabled" koanf:"enabled" toml:"enabled"`

	// Duration is the transition length in milliseconds.
	Duration int `json:"duration" jsonschema:"minimum=0,maximum=5000" koanf:"duration" toml:"duration"`

	// Easing is a CSS timing function name.
	Easing string `json:"easing" koanf:"easing" toml:"easing"`
}

// Clone returns a deep copy of the configuration.
func (c *FileUploadConfig) Clone() *FileUploadConfig {
	if c == nil {
		return nil
	}

	out := *c
	out.Validation.AllowedTypes = cloneStrings(c.Validation.AllowedTypes)
	out.Validation.AllowedExtensions = cloneStrings(c.Validation.AllowedExtensions)
	out.Validation.MaxWidth = cloneInt(c.Validation.MaxWidth)
	out.Validation.MaxHeight = cloneInt(c.Validation.MaxHeight)
	out.Validation.MinWidth = cloneInt(c.Validation.MinWidth)
	out.Validation.MinHeight = cloneInt(c.Validation.MinHeight)

	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, len(in))
	copy(out, in)

	return out
}

func cloneInt(in *int) *int {
	if in == nil {
		return nil
	}

	v := *in

	return &v
}
