package config

// ValidationConfig contains the file acceptance rules.
type ValidationConfig struct {
	// MaxSize is the maximum accepted file size in bytes.
	MaxSize int64 `json:"maxSize" jsonschema:"minimum=0" koanf:"maxSize" toml:"maxSize"`

	// MinSize is the minimum accepted file size in bytes.
	MinSize int64 `json:"minSize" jsonschema:"minimum=0" koanf:"minSize" toml:"minSize"`

	// MaxFiles is the maximum number of files in one selection.
	MaxFiles int `json:"maxFiles" jsonschema:"minimum=1" koanf:"maxFiles" toml:"maxFiles"`

	// AllowedTypes lists accepted MIME types. Wildcards such as "image/*" are allowed.
	AllowedTypes []string `json:"allowedTypes" koanf:"allowedTypes" toml:"allowedTypes"`

	// AllowedExtensions lists accepted file extensions including the leading dot.
	AllowedExtensions []string `json:"allowedExtensions" koanf:"allowedExtensions" toml:"allowedExtensions"`

	// MaxWidth is the maximum image width in pixels.
	MaxWidth *int `json:"maxWidth,omitempty" jsonschema:"minimum=1" koanf:"maxWidth" toml:"maxWidth,omitempty"`

	// MaxHeight is the maximum image height in pixels.
	MaxHeight *int `json:"maxHeight,omitempty" jsonschema:"minimum=1" koanf:"maxHeight" toml:"maxHeight,omitempty"`

	// MinWidth is the minimum image width in pixels.
	MinWidth *int `json:"minWidth,omitempty" jsonschema:"minimum=1" koanf:"minWidth" toml:"minWidth,omitempty"`

	// MinHeight is the minimum image height in pixels.
	MinHeight *int `json:"minHeight,omitempty" jsonschema:"minimum=1" koanf:"minHeight" toml:"minHeight,omitempty"`
}

// HasDimensionRules reports whether any image dimension bound is set.
func (v *ValidationConfig) HasDimensionRules() bool {
	if v == nil {
		return false
	}

	return v.MaxWidth != nil || v.MaxHeight != nil || v.MinWidth != nil || v.MinHeight != nil
}

// AcceptsAnyType reports whether no MIME type restriction is configured.
func (v *ValidationConfig) AcceptsAnyType() bool {
	return v == nil || len(v.AllowedTypes) == 0
}

// AcceptsAnyExtension reports whether no extension restriction is configured.
func (v *ValidationConfig) AcceptsAnyExtension() bool {
	return v == nil || len(v.AllowedExtensions) == 0
}
