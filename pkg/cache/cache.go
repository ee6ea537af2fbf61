// Package cache provides a memoizing front for the converter. Editors tend
// to paste the same console output repeatedly (retrying, reformatting,
// undoing), so results are kept in an LRU keyed by a content hash of the
// input.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mwhitley/reprjson/pkg/convert"
)

// Config controls ConversionCache behavior.
type Config struct {
	// MaxEntries is the maximum number of results to keep. 0 uses the default.
	MaxEntries int

	// Debug enables per-hit/miss debug logging.
	Debug bool
}

// DefaultConfig returns a config suitable for interactive use.
func DefaultConfig() Config {
	return Config{MaxEntries: 256}
}

// Stats holds cache counters. All fields are cumulative.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// ConversionCache memoizes convert.Convert results behind an LRU.
//
// Thread-safe: the underlying LRU serializes access and the counters are
// atomic, so concurrent callers need no coordination.
type ConversionCache struct {
	results *lru.Cache[string, convert.ConversionResult]
	config  Config
	logger  *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a ConversionCache. A nil logger falls back to slog.Default().
func New(config Config, logger *slog.Logger) (*ConversionCache, error) {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultConfig().MaxEntries
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &ConversionCache{config: config, logger: logger}

	results, err := lru.NewWithEvict(config.MaxEntries, func(key string, _ convert.ConversionResult) {
		c.evictions.Add(1)
		if config.Debug {
			logger.Debug("evicting cached conversion", "key", key)
		}
	})
	if err != nil {
		return nil, err
	}
	c.results = results

	return c, nil
}

// Convert returns the memoized conversion of input, running the converter on
// a cache miss. Failed conversions are cached too: the converter is
// deterministic, so re-running it on the same input cannot change the
// outcome.
func (c *ConversionCache) Convert(input string) convert.ConversionResult {
	key := contentHash(input)

	if res, ok := c.results.Get(key); ok {
		c.hits.Add(1)
		if c.config.Debug {
			c.logger.Debug("conversion cache hit", "key", key)
		}
		return res
	}

	c.misses.Add(1)
	res := convert.Convert(input)
	c.results.Add(key, res)

	if c.config.Debug {
		c.logger.Debug("conversion cache miss", "key", key, "success", res.Success)
	}
	return res
}

// Stats returns a snapshot of the cache counters.
func (c *ConversionCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.results.Len(),
	}
}

// Purge drops all cached results.
func (c *ConversionCache) Purge() {
	c.results.Purge()
}

// contentHash returns the SHA-256 hex digest of input, used as the cache key
// so that arbitrarily large pastes map to fixed-size keys.
func contentHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
