//go:generate mockgen -source=fetcher.go -destination=fetcher_mock.go -package=loader

package loader

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/knadh/koanf/providers/file"
)

// ErrFetchFailed is returned when a remote configuration cannot be retrieved.
var ErrFetchFailed = errors.New("failed to fetch configuration")

// Fetcher retrieves the raw bytes of a configuration document.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// HTTPFetcher fetches configuration documents over HTTP(S).
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates an HTTPFetcher. Transport errors and server errors
// are retried up to retries times.
func NewHTTPFetcher(timeout time.Duration, retries int) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json, application/toml, application/yaml, */*").
		SetRetryCount(retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	client.AddRetryCondition(retryCondition)

	return &HTTPFetcher{client: client}
}

// Fetch performs a GET request. Responses outside 2xx are errors carrying
// the status text.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to fetch configuration"), ErrFetchFailed)
	}

	if !resp.IsSuccess() {
		return nil, errors.Mark(errors.Newf("failed to fetch configuration: %s", resp.Status()), ErrFetchFailed)
	}

	return resp.Body(), nil
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	return code >= 500 || code == 429 || code == 408
}

// FileFetcher reads configuration documents from the local filesystem.
type FileFetcher struct{}

// Fetch reads the file at location.
func (FileFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	data, err := file.Provider(location).ReadBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", location)
	}

	return data, nil
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// documentFormat is the serialization of a fetched document.
type documentFormat int

const (
	formatJSON documentFormat = iota
	formatTOML
	formatYAML
)

// formatOf picks the document format from the extension of a path or URL.
func formatOf(location string) documentFormat {
	ext := filepath.Ext(location)

	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			ext = path.Ext(u.Path)
		}
	}

	switch strings.ToLower(ext) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}
