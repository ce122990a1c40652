// Package config implements validation, merging and construction of upload configurations.
package config

import (
	"sync"

	"github.com/knadh/koanf/maps"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const (
	// DefaultMaxSize is the default maximum file size (10 MiB).
	DefaultMaxSize int64 = 10 * 1024 * 1024

	// DefaultMaxFiles is the default number of files accepted per selection.
	DefaultMaxFiles = 10

	// DefaultAnimationDuration is the default transition length in milliseconds.
	DefaultAnimationDuration = 200

	// MaxAnimationDuration is the upper bound for animations.duration.
	MaxAnimationDuration = 5000
)

var defaultAllowedTypes = []string{
	"image/*",
	"application/pdf",
	"text/plain",
}

var defaultAllowedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".pdf", ".txt",
}

var defaultConfig = &config.FileUploadConfig{
	Version:       config.CurrentVersion,
	Defaults:      DefaultDefaultsConfig(),
	Validation:    DefaultValidationConfig(),
	Styling:       DefaultStylingConfig(),
	Labels:        DefaultLabelsConfig(),
	Features:      DefaultFeaturesConfig(),
	Animations:    DefaultAnimationsConfig(),
	Accessibility: DefaultAccessibilityConfig(),
}

// defaultMap is the default configuration in fragment form, computed once.
var defaultMap = sync.OnceValue(func() map[string]any {
	m, err := ToMap(defaultConfig)
	if err != nil {
		panic("default configuration is not serializable: " + err.Error())
	}

	return m
})

// DefaultConfig returns a fresh copy of the default configuration.
func DefaultConfig() *config.FileUploadConfig {
	return defaultConfig.Clone()
}

// DefaultMap returns a fresh copy of the default configuration as a fragment tree.
func DefaultMap() map[string]any {
	return maps.Copy(defaultMap())
}

// DefaultSection returns a fresh copy of one default section, or nil for unknown names.
func DefaultSection(name string) map[string]any {
	section, ok := defaultMap()[name].(map[string]any)
	if !ok {
		return nil
	}

	return maps.Copy(section)
}

// DefaultDefaultsConfig returns the default widget props.
func DefaultDefaultsConfig() config.DefaultsConfig {
	return config.DefaultsConfig{
		Variant:  config.VariantDropzone,
		Size:     config.SizeMedium,
		Radius:   config.RadiusMedium,
		Theme:    config.ThemeAuto,
		MaxSize:  DefaultMaxSize,
		MaxFiles: 1,
		Multiple: false,
		Disabled: false,
	}
}

// DefaultValidationConfig returns the default acceptance rules.
func DefaultValidationConfig() config.ValidationConfig {
	return config.ValidationConfig{
		MaxSize:           DefaultMaxSize,
		MinSize:           0,
		MaxFiles:          DefaultMaxFiles,
		AllowedTypes:      append([]string(nil), defaultAllowedTypes...),
		AllowedExtensions: append([]string(nil), defaultAllowedExtensions...),
	}
}

// DefaultStylingConfig returns the default theme tokens.
func DefaultStylingConfig() config.StylingConfig {
	return config.StylingConfig{
		Theme: config.ThemeAuto,
		Colors: config.ColorsConfig{
			Primary:    "#3b82f6",
			Secondary:  "#64748b",
			Success:    "#22c55e",
			Error:      "#ef4444",
			Warning:    "#f59e0b",
			Background: "#ffffff",
			Foreground: "#0f172a",
			Border:     "#e2e8f0",
			Muted:      "#94a3b8",
		},
		Borders: config.BordersConfig{
			Width:  2,
			Style:  config.BorderDashed,
			Radius: "0.5rem",
		},
		Spacing: config.SpacingConfig{
			Padding: "1.5rem",
			Gap:     "0.75rem",
		},
	}
}

// DefaultLabelsConfig returns the default English labels.
func DefaultLabelsConfig() config.LabelsConfig {
	return config.LabelsConfig{
		UploadText:      "Click to upload",
		DragText:        "or drag and drop",
		DropText:        "Drop files here",
		BrowseText:      "Browse files",
		MaxSizeText:     "Maximum file size: {size}",
		MaxFilesText:    "Maximum {count} files",
		InvalidTypeText: "File type not allowed",
		UploadingText:   "Uploading...",
		SuccessText:     "Upload complete",
		ErrorText:       "Upload failed",
		RemoveText:      "Remove",
		RetryText:       "Retry",
		CancelText:      "Cancel",
		PreviewText:     "Preview",
	}
}

// DefaultFeaturesConfig returns the default feature toggles.
func DefaultFeaturesConfig() config.FeaturesConfig {
	return config.FeaturesConfig{
		DragAndDrop:        true,
		Preview:            true,
		Progress:           true,
		MultipleFiles:      false,
		RemoveFiles:        true,
		RetryFailed:        true,
		PasteFromClipboard: false,
		ImageCompression:   false,
		ChunkedUpload:      false,
		AutoUpload:         true,
		CameraCapture:      false,
	}
}

// DefaultAnimationsConfig returns the default transition settings.
func DefaultAnimationsConfig() config.AnimationsConfig {
	return config.AnimationsConfig{
		Enabled:  true,
		Duration: DefaultAnimationDuration,
		Easing:   "ease-in-out",
	}
}

// DefaultAccessibilityConfig returns the default accessibility toggles.
func DefaultAccessibilityConfig() config.AccessibilityConfig {
	return config.AccessibilityConfig{
		AnnounceUploads:    true,
		KeyboardNavigation: true,
		FocusManagement:    true,
		HighContrast:       false,
		ReducedMotion:      false,
	}
}
