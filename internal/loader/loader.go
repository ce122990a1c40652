// Package loader turns raw configuration sources into validated configurations.
package loader

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/pkg/config"
	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

const (
	// DefaultHTTPTimeout bounds a single remote fetch attempt.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultRetries is the number of retries for failed remote fetches.
	DefaultRetries = 2
)

// ErrInvalidOptions is returned when loader options fail validation.
var ErrInvalidOptions = errors.New("invalid loader options")

// Options configures a Loader. Zero durations and sizes take their defaults.
type Options struct {
	HTTPTimeout time.Duration `validate:"gte=0"`
	Retries     int           `validate:"gte=0,lte=10"`
	CacheTTL    time.Duration `validate:"gte=0"`
	CacheSize   int           `validate:"gte=0"`

	// Clock overrides time.Now for cache expiry.
	Clock func() time.Time

	// HTTP fetches http and https sources. Defaults to an HTTPFetcher.
	HTTP Fetcher

	// Files reads local sources. Defaults to FileFetcher.
	Files Fetcher

	Logger logger.Logger
}

// LoadResult is the outcome of loading one source.
type LoadResult struct {
	// Config is the loaded configuration. It is nil only when LoadSync
	// fails to parse an inline JSON source.
	Config *config.FileUploadConfig

	Errors []config.ValidationError

	FromCache bool
}

// OK reports whether the load produced no errors.
func (r LoadResult) OK() bool {
	return len(r.Errors) == 0
}

func (r LoadResult) clone() LoadResult {
	out := r
	out.Config = r.Config.Clone()

	if r.Errors != nil {
		out.Errors = append([]config.ValidationError(nil), r.Errors...)
	}

	return out
}

// Loader loads configurations from inline JSON, files, URLs and objects.
// Each Loader owns its cache.
type Loader struct {
	http  Fetcher
	files Fetcher
	cache *Cache
	group singleflight.Group
	log   logger.Logger
}

// New creates a Loader.
func New(opts Options) (*Loader, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, errors.Wrap(errors.Mark(err, ErrInvalidOptions), ErrInvalidOptions.Error())
	}

	if opts.HTTPTimeout == 0 {
		opts.HTTPTimeout = DefaultHTTPTimeout
	}

	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}

	log := logger.OrNoOp(opts.Logger)

	cache, err := NewCache(opts.CacheSize, opts.CacheTTL, opts.Clock, log)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		http:  opts.HTTP,
		files: opts.Files,
		cache: cache,
		log:   log,
	}

	if l.http == nil {
		l.http = NewHTTPFetcher(opts.HTTPTimeout, opts.Retries)
	}

	if l.files == nil {
		l.files = FileFetcher{}
	}

	return l, nil
}

// Cache returns the loader's cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load loads source, fetching remote URLs when needed. Every failure falls
// back to the default configuration with the errors attached.
func (l *Loader) Load(ctx context.Context, source any) LoadResult {
	return l.load(ctx, source, true)
}

// LoadSync loads source without network access. Inline JSON that does not
// parse yields a nil configuration; every other failure falls back to the
// default configuration.
func (l *Loader) LoadSync(source any) LoadResult {
	return l.load(context.Background(), source, false)
}

// LoadWithCache loads source through the cache. Only string sources are
// cached, only error-free results are stored, and concurrent misses for the
// same source share one load. The shared load ignores cancellation of the
// caller that started it, so one canceled caller cannot fail the others;
// ctx values and the fetcher timeout still apply.
func (l *Loader) LoadWithCache(ctx context.Context, source any, useCache bool) LoadResult {
	key, isString := source.(string)
	if !useCache || !isString {
		return l.Load(ctx, source)
	}

	if cached, ok := l.cache.Get(key); ok {
		l.log.Debug("cache hit", "source", abbreviate(key))

		cached.FromCache = true

		return cached
	}

	shared := context.WithoutCancel(ctx)

	value, _, _ := l.group.Do(key, func() (any, error) {
		result := l.Load(shared, key)
		if result.OK() {
			l.cache.Set(key, result)
		}

		return result, nil
	})

	result, ok := value.(LoadResult)
	if !ok {
		return l.Load(ctx, source)
	}

	return result.clone()
}

func (l *Loader) load(ctx context.Context, source any, remote bool) LoadResult {
	switch src := source.(type) {
	case nil:
		return LoadResult{Config: internalconfig.DefaultConfig()}
	case string:
		return l.loadString(ctx, src, remote)
	case *config.FileUploadConfig:
		if src == nil {
			return LoadResult{Config: internalconfig.DefaultConfig()}
		}

		return l.loadObject(src)
	default:
		return l.loadObject(src)
	}
}

func (l *Loader) loadString(ctx context.Context, source string, remote bool) LoadResult {
	trimmed := strings.TrimSpace(source)

	switch {
	case trimmed == "":
		return LoadResult{Config: internalconfig.DefaultConfig()}
	case strings.HasPrefix(trimmed, "{"):
		return l.loadJSON([]byte(trimmed), remote)
	}

	var (
		data []byte
		err  error
	)

	switch {
	case IsRemote(trimmed) && !remote:
		err = errors.Newf("cannot fetch %s without network access", trimmed)
	case IsRemote(trimmed):
		l.log.Debug("fetching remote configuration", "url", trimmed)
		data, err = l.http.Fetch(ctx, trimmed)
	default:
		l.log.Debug("reading configuration file", "path", trimmed)
		data, err = l.files.Fetch(ctx, trimmed)
	}

	if err != nil {
		return fallback(config.PathFile, err.Error())
	}

	format := formatOf(trimmed)

	parsed, err := parseDocument(data, format)
	if err != nil {
		path := config.PathFile
		if format == formatJSON {
			path = config.PathRoot
		}

		return fallback(path, err.Error())
	}

	return l.loadObject(parsed)
}

// ReadFragment reads the document at location, or parses it as inline JSON,
// without merging it onto the defaults or validating it.
func (l *Loader) ReadFragment(ctx context.Context, location string) (map[string]any, error) {
	trimmed := strings.TrimSpace(location)
	if strings.HasPrefix(trimmed, "{") {
		return fragmentOf(parseDocument([]byte(trimmed), formatJSON))
	}

	fetcher := l.files
	if IsRemote(trimmed) {
		fetcher = l.http
	}

	data, err := fetcher.Fetch(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	return fragmentOf(parseDocument(data, formatOf(trimmed)))
}

func fragmentOf(parsed any, err error) (map[string]any, error) {
	if err != nil {
		return nil, err
	}

	if parsed == nil {
		return map[string]any{}, nil
	}

	return internalconfig.ToMap(parsed)
}

func parseDocument(data []byte, format documentFormat) (any, error) {
	switch format {
	case formatTOML:
		m, err := tomlparser.Parser().Unmarshal(data)
		if err != nil {
			return nil, errors.Wrap(err, "Invalid TOML")
		}

		return m, nil
	case formatYAML:
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "Invalid YAML")
		}

		if m == nil {
			m = map[string]any{}
		}

		return m, nil
	default:
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, errors.Wrap(err, "Invalid JSON")
		}

		return parsed, nil
	}
}

// loadJSON parses data as JSON. When parse fails, the result carries the
// default configuration if withDefault is set and a nil one otherwise.
func (l *Loader) loadJSON(data []byte, withDefault bool) LoadResult {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		result := LoadResult{Errors: []config.ValidationError{{
			Path:    config.PathRoot,
			Message: "Invalid JSON: " + err.Error(),
		}}}

		if withDefault {
			result.Config = internalconfig.DefaultConfig()
		}

		return result
	}

	return l.loadObject(parsed)
}

// loadObject merges an object source onto the defaults and validates the
// result. Invalid results fall back to the defaults.
func (l *Loader) loadObject(source any) LoadResult {
	fragment, err := internalconfig.ToMap(source)
	if err != nil {
		if errors.Is(err, internalconfig.ErrNotObject) {
			return fallback(config.PathRoot, "Configuration must be an object")
		}

		return fallback(config.PathRoot, "Validation error: "+err.Error())
	}

	merged := internalconfig.DeepMerge(internalconfig.DefaultMap(), fragment)

	validation := internalconfig.ValidateConfig(merged)
	if !validation.IsValid {
		l.log.Debug("configuration rejected", "errors", len(validation.Errors))

		return LoadResult{Config: internalconfig.DefaultConfig(), Errors: validation.Errors}
	}

	cfg, err := internalconfig.Decode(merged)
	if err != nil {
		return fallback(config.PathRoot, "Validation error: "+err.Error())
	}

	return LoadResult{Config: cfg}
}

func fallback(path, message string) LoadResult {
	return LoadResult{
		Config: internalconfig.DefaultConfig(),
		Errors: []config.ValidationError{{Path: path, Message: message}},
	}
}
