package config

import (
	"slices"
)

// Variant selects the upload widget layout.
type Variant string

const (
	VariantButton    Variant = "button"
	VariantDropzone  Variant = "dropzone"
	VariantPreview   Variant = "preview"
	VariantImageOnly Variant = "image-only"
	VariantMultiFile Variant = "multi-file"
)

// Variants lists every supported widget variant.
var Variants = []Variant{
	VariantButton,
	VariantDropzone,
	VariantPreview,
	VariantImageOnly,
	VariantMultiFile,
}

// IsValid reports whether v is a known variant.
func (v Variant) IsValid() bool {
	return slices.Contains(Variants, v)
}

// Size selects the widget size.
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
)

// Sizes lists every supported widget size.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// IsValid reports whether s is a known size.
func (s Size) IsValid() bool {
	return slices.Contains(Sizes, s)
}

// Radius selects the corner radius.
type Radius string

const (
	RadiusNone   Radius = "none"
	RadiusSmall  Radius = "sm"
	RadiusMedium Radius = "md"
	RadiusLarge  Radius = "lg"
	RadiusFull   Radius = "full"
)

// Radii lists every supported corner radius.
var Radii = []Radius{RadiusNone, RadiusSmall, RadiusMedium, RadiusLarge, RadiusFull}

// IsValid reports whether r is a known radius.
func (r Radius) IsValid() bool {
	return slices.Contains(Radii, r)
}

// Theme selects the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Themes lists every supported theme.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeAuto}

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	return slices.Contains(Themes, t)
}

// BorderStyle is the CSS border style of the drop surface.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderNone   BorderStyle = "none"
)

// BorderStyles lists every supported border style.
var BorderStyles = []BorderStyle{BorderSolid, BorderDashed, BorderDotted, BorderNone}

// IsValid reports whether b is a known border style.
func (b BorderStyle) IsValid() bool {
	return slices.Contains(BorderStyles, b)
}

// Strings converts a slice of string-based enum values into plain strings.
func Strings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		out = append(out, string(v))
	}

	return out
}
