package xdg

import (
	"os"
	"path/filepath"
)

// ProjectConfigNames are looked up, in order, in the working directory.
var ProjectConfigNames = []string{
	"uploadkit.json",
	"uploadkit.toml",
	"uploadkit.yaml",
	"uploadkit.yml",
}

// GlobalConfigNames are looked up, in order, in ConfigDir().
var GlobalConfigNames = []string{
	"config.json",
	"config.toml",
	"config.yaml",
	"config.yml",
}

// FindConfig returns the first project configuration in dir, or else the
// first global one. The second result is false when neither exists.
func FindConfig(dir string) (string, bool) {
	for _, name := range ProjectConfigNames {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path, true
		}
	}

	for _, name := range GlobalConfigNames {
		if path := filepath.Join(ConfigDir(), name); fileExists(path) {
			return path, true
		}
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
