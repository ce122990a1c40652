package export

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const (
	// FileMode is the file mode for exported files (user read/write only).
	FileMode = 0o600

	// DirMode is the file mode for created directories (user rwx only).
	DirMode = 0o700
)

// FormatForPath picks the export format matching a file extension. Unknown
// extensions yield json.
func FormatForPath(path string) Format {
	switch filepath.Ext(path) {
	case ".ts":
		return FormatTypeScript
	case ".yaml", ".yml":
		return FormatYAML
	case ".env":
		return FormatEnv
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// WriteFile exports cfg to path, creating parent directories as needed.
func WriteFile(path string, cfg *config.FileUploadConfig, format Format) error {
	content, err := Export(cfg, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	if len(content) > 0 && content[len(content)-1] != '\n' {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), FileMode); err != nil {
		return errors.Wrapf(err, "failed to write file %s", path)
	}

	return nil
}
