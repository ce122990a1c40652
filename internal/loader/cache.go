package loader

import (
	"time"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

const (
	// DefaultCacheTTL is how long a cached load result stays fresh.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheSize bounds the number of cached sources.
	DefaultCacheSize = 128
)

// ErrInvalidCacheSize is returned for a non-positive cache size.
var ErrInvalidCacheSize = errors.New("cache size must be greater than zero")

type cacheEntry struct {
	result  LoadResult
	expires time.Time
}

// Cache stores successful load results keyed by their literal source string.
// Expired entries are evicted when they are read. Safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
}

// NewCache creates a Cache holding at most size entries. A zero ttl uses
// DefaultCacheTTL and a nil now uses time.Now.
func NewCache(size int, ttl time.Duration, now func() time.Time, log logger.Logger) (*Cache, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidCacheSize, "got %d", size)
	}

	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cache")
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	if now == nil {
		now = time.Now
	}

	return &Cache{
		entries: entries,
		ttl:     ttl,
		now:     now,
		log:     logger.OrNoOp(log),
	}, nil
}

// Get returns a copy of the fresh entry for key.
func (c *Cache) Get(key string) (LoadResult, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return LoadResult{}, false
	}

	if !c.now().Before(entry.expires) {
		c.entries.Remove(key)
		c.log.Debug("cache entry expired", "key", abbreviate(key))

		return LoadResult{}, false
	}

	return entry.result.clone(), true
}

// Set stores a copy of result under key, replacing any previous entry.
func (c *Cache) Set(key string, result LoadResult) {
	c.entries.Add(key, cacheEntry{
		result:  result.clone(),
		expires: c.now().Add(c.ttl),
	})
}

// Has reports whether a fresh entry exists for key.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)

	return ok
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// TTL returns the entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// abbreviate shortens inline JSON sources for log output.
func abbreviate(key string) string {
	const maxLen = 48

	if len(key) <= maxLen {
		return key
	}

	return key[:maxLen] + "..."
}
