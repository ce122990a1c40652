package config

// FeaturesConfig contains the behavior toggles of the widgets.
type FeaturesConfig struct {
	DragAndDrop        bool `json:"dragAndDrop" koanf:"dragAndDrop" toml:"dragAndDrop"`
	Preview            bool `json:"preview" koanf:"preview" toml:"preview"`
	Progress           bool `json:"progress" koanf:"progress" toml:"progress"`
	MultipleFiles      bool `json:"multipleFiles" koanf:"multipleFiles" toml:"multipleFiles"`
	RemoveFiles        bool `json:"removeFiles" koanf:"removeFiles" toml:"removeFiles"`
	RetryFailed        bool `json:"retryFailed" koanf:"retryFailed" toml:"retryFailed"`
	PasteFromClipboard bool `json:"pasteFromClipboard" koanf:"pasteFromClipboard" toml:"pasteFromClipboard"`
	ImageCompression   bool `json:"imageCompression" koanf:"imageCompression" toml:"imageCompression"`
	ChunkedUpload      bool `json:"chunkedUpload" koanf:"chunkedUpload" toml:"chunkedUpload"`
	AutoUpload         bool `json:"autoUpload" koanf:"autoUpload" toml:"autoUpload"`
	CameraCapture      bool `json:"cameraCapture" koanf:"cameraCapture" toml:"cameraCapture"`
}

// FeatureKeys lists the required feature toggles.
var FeatureKeys = []string{
	"dragAndDrop",
	"preview",
	"progress",
	"multipleFiles",
	"removeFiles",
	"retryFailed",
	"pasteFromClipboard",
	"imageCompression",
	"chunkedUpload",
	"autoUpload",
	"cameraCapture",
}

// AccessibilityConfig contains the assistive technology toggles.
type AccessibilityConfig struct {
	// AnnounceUploads enables screen reader announcements for upload progress.
	AnnounceUploads bool `json:"announceUploads" koanf:"announceUploads" toml:"announceUploads"`

	KeyboardNavigation bool `json:"keyboardNavigation" koanf:"keyboardNavigation" toml:"keyboardNavigation"`
	FocusManagement    bool `json:"focusManagement" koanf:"focusManagement" toml:"focusManagement"`
	HighContrast       bool `json:"highContrast" koanf:"highContrast" toml:"highContrast"`

	// ReducedMotion disables animations regardless of the animations section.
	ReducedMotion bool `json:"reducedMotion" koanf:"reducedMotion" toml:"reducedMotion"`
}

// AccessibilityKeys lists the required accessibility toggles.
var AccessibilityKeys = []string{
	"announceUploads",
	"keyboardNavigation",
	"focusManagement",
	"highContrast",
	"reducedMotion",
}

// AnimationsActive reports whether transitions should run, honoring reduced motion.
func (c *FileUploadConfig) AnimationsActive() bool {
	if c == nil {
		return false
	}

	return c.Animations.Enabled && !c.Accessibility.ReducedMotion
}
