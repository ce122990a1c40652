// Package acceptance checks candidate files against the validation rules of
// a configuration.
package acceptance

import (
	"fmt"
	"image"
	_ "image/gif"  // register decoder for DecodeConfig
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/smykla-skalski/uploadkit/pkg/config"
	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

// Reason classifies a rejection.
type Reason string

const (
	ReasonTooLarge   Reason = "too_large"
	ReasonTooSmall   Reason = "too_small"
	ReasonType       Reason = "type"
	ReasonExtension  Reason = "extension"
	ReasonDimensions Reason = "dimensions"
	ReasonTooMany    Reason = "too_many"
)

// FileInfo describes a candidate file. Zero Width and Height mean the
// dimensions are unknown and are not checked.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
	Width    int
	Height   int
}

// Rejection explains why a file is not accepted.
type Rejection struct {
	File    string `json:"file"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// Result is the outcome for one file of CheckFiles.
type Result struct {
	Info       FileInfo
	Rejections []Rejection
}

// Accepted reports whether the file passed every rule.
func (r Result) Accepted() bool {
	return len(r.Rejections) == 0
}

// Checker applies a validation section to files.
type Checker struct {
	rules config.ValidationConfig
	log   logger.Logger
}

// NewChecker creates a Checker for rules.
func NewChecker(rules config.ValidationConfig, log logger.Logger) *Checker {
	return &Checker{rules: rules, log: logger.OrNoOp(log)}
}

// Check returns every rule the file violates.
func (c *Checker) Check(info FileInfo) []Rejection {
	var out []Rejection

	reject := func(reason Reason, format string, args ...any) {
		out = append(out, Rejection{
			File:    info.Name,
			Reason:  reason,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if c.rules.MaxSize > 0 && info.Size > c.rules.MaxSize {
		reject(ReasonTooLarge, "%s is %s, larger than the %s limit",
			info.Name, humanize.IBytes(uint64(info.Size)), humanize.IBytes(uint64(c.rules.MaxSize)))
	}

	if c.rules.MinSize > 0 && info.Size < c.rules.MinSize {
		reject(ReasonTooSmall, "%s is %s, smaller than the %s minimum",
			info.Name, humanize.IBytes(uint64(max(info.Size, 0))), humanize.IBytes(uint64(c.rules.MinSize)))
	}

	if !c.rules.AcceptsAnyType() && !c.typeAllowed(info.MIMEType) {
		reject(ReasonType, "%s has type %s, which is not allowed", info.Name, displayType(info.MIMEType))
	}

	if !c.rules.AcceptsAnyExtension() && !c.extensionAllowed(info.Name) {
		reject(ReasonExtension, "%s has extension %q, which is not allowed", info.Name, filepath.Ext(info.Name))
	}

	if info.Width > 0 && info.Height > 0 {
		c.checkDimensions(info, reject)
	}

	return out
}

func (c *Checker) checkDimensions(info FileInfo, reject func(Reason, string, ...any)) {
	bounds := []struct {
		limit    *int
		actual   int
		tooLarge bool
		what     string
	}{
		{c.rules.MaxWidth, info.Width, true, "wider than %d pixels"},
		{c.rules.MaxHeight, info.Height, true, "taller than %d pixels"},
		{c.rules.MinWidth, info.Width, false, "narrower than %d pixels"},
		{c.rules.MinHeight, info.Height, false, "shorter than %d pixels"},
	}

	for _, b := range bounds {
		if b.limit == nil {
			continue
		}

		if (b.tooLarge && b.actual > *b.limit) || (!b.tooLarge && b.actual < *b.limit) {
			reject(ReasonDimensions, "%s is %dx%d, "+b.what, info.Name, info.Width, info.Height, *b.limit)
		}
	}
}

// typeAllowed matches the base MIME type against the allowed patterns,
// where "image/*" covers every image subtype.
func (c *Checker) typeAllowed(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))

	if base == "" {
		return false
	}

	for _, pattern := range c.rules.AllowedTypes {
		ok, err := doublestar.Match(strings.ToLower(strings.TrimSpace(pattern)), base)
		if err != nil {
			c.log.Debug("ignoring malformed type pattern", "pattern", pattern, "error", err)

			continue
		}

		if ok {
			return true
		}
	}

	return false
}

func (c *Checker) extensionAllowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}

	for _, allowed := range c.rules.AllowedExtensions {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if !strings.HasPrefix(allowed, ".") {
			allowed = "." + allowed
		}

		if allowed == ext {
			return true
		}
	}

	return false
}

// CheckFile inspects the file at path and checks it.
func (c *Checker) CheckFile(path string) (Result, error) {
	info, err := Inspect(path)
	if err != nil {
		return Result{}, err
	}

	return Result{Info: info, Rejections: c.Check(info)}, nil
}

// CheckFiles checks every path and additionally rejects the files past
// the maxFiles limit.
func (c *Checker) CheckFiles(paths []string) ([]Result, error) {
	results := make([]Result, 0, len(paths))

	for i, path := range paths {
		result, err := c.CheckFile(path)
		if err != nil {
			return nil, err
		}

		if c.rules.MaxFiles > 0 && i >= c.rules.MaxFiles {
			result.Rejections = append(result.Rejections, Rejection{
				File:   result.Info.Name,
				Reason: ReasonTooMany,
				Message: fmt.Sprintf("%d files selected, at most %d allowed",
					len(paths), c.rules.MaxFiles),
			})
		}

		results = append(results, result)
	}

	return results, nil
}

// Inspect reads size, detected MIME type and, for decodable images,
// dimensions of the file at path.
func Inspect(path string) (FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, errors.Wrapf(err, "failed to stat %s", path)
	}

	if stat.IsDir() {
		return FileInfo{}, errors.Newf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return FileInfo{}, errors.Wrapf(err, "failed to detect type of %s", path)
	}

	info := FileInfo{
		Name:     filepath.Base(path),
		Size:     stat.Size(),
		MIMEType: mtype.String(),
	}

	if strings.HasPrefix(info.MIMEType, "image/") {
		info.Width, info.Height = imageSize(path)
	}

	return info, nil
}

// imageSize returns zeros for formats without a registered decoder.
func imageSize(path string) (int, int) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return 0, 0
	}

	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}

	return cfg.Width, cfg.Height
}

func displayType(mimeType string) string {
	if mimeType == "" {
		return "unknown"
	}

	return mimeType
}
