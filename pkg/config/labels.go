package config

// LabelsConfig contains every user-facing string rendered by the widgets.
type LabelsConfig struct {
	UploadText      string `json:"uploadText" koanf:"uploadText" toml:"uploadText"`
	DragText        string `json:"dragText" koanf:"dragText" toml:"dragText"`
	DropText        string `json:"dropText" koanf:"dropText" toml:"dropText"`
	BrowseText      string `json:"browseText" koanf:"browseText" toml:"browseText"`
	MaxSizeText     string `json:"maxSizeText" koanf:"maxSizeText" toml:"maxSizeText"`
	MaxFilesText    string `json:"maxFilesText" koanf:"maxFilesText" toml:"maxFilesText"`
	InvalidTypeText string `json:"invalidTypeText" koanf:"invalidTypeText" toml:"invalidTypeText"`
	UploadingText   string `json:"uploadingText" koanf:"uploadingText" toml:"uploadingText"`
	SuccessText     string `json:"successText" koanf:"successText" toml:"successText"`
	ErrorText       string `json:"errorText" koanf:"errorText" toml:"errorText"`
	RemoveText      string `json:"removeText" koanf:"removeText" toml:"removeText"`
	RetryText       string `json:"retryText" koanf:"retryText" toml:"retryText"`
	CancelText      string `json:"cancelText" koanf:"cancelText" toml:"cancelText"`
	PreviewText     string `json:"previewText" koanf:"previewText" toml:"previewText"`
}

// LabelKeys lists the required label keys.
var LabelKeys = []string{
	"uploadText",
	"dragText",
	"dropText",
	"browseText",
	"maxSizeText",
	"maxFilesText",
	"invalidTypeText",
	"uploadingText",
	"successText",
	"errorText",
	"removeText",
	"retryText",
	"cancelText",
	"previewText",
}
