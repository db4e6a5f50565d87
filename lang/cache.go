package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/ristretto"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the default total source length, in bytes, of the
// programs a [Cache] retains.
const DefaultCacheSize = 1 << 22

// Cache retains parsed programs keyed by their source text.
//
// Programs are never modified after parsing, so one cached [*Program] may
// be evaluated any number of times, by any number of evaluators. Failed
// parses are not cached. A Cache is safe for concurrent use.
type Cache struct {
	store *ristretto.Cache
}

// NewCache returns a cache retaining programs whose sources total at most
// maxCost bytes. A non-positive maxCost selects [DefaultCacheSize].
func NewCache(maxCost int64) (*Cache, error) {
	if maxCost <= 0 {
		maxCost = DefaultCacheSize
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: max(maxCost/64, 1024),
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, WrapError(err)
	}

	return &Cache{store: store}, nil
}

// Parse returns the program parsed from source, reusing a previous result
// for identical source text.
func (c *Cache) Parse(
	ctx context.Context,
	source string,
	opts ...ParseOption,
) (*Program, error) {
	cfg := makeParseConfig(opts...)
	key := xxh3.HashString(source)

	if v, ok := c.store.Get(key); ok {
		if e, ok := v.(cacheEntry); ok && e.source == source {
			cfg.logger.TraceContext(ctx, "cache lookup",
				slog.String("source_hash", strconv.FormatUint(key, 16)),
				slog.Bool("cache_hit", true))

			return e.prog, nil
		}
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", false))

	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, cacheEntry{source: source, prog: prog}, int64(len(source))+1)
	c.store.Wait()

	return prog, nil
}

// Clear removes all cached programs.
func (c *Cache) Clear() { c.store.Clear() }

// Close releases the cache's background resources.
func (c *Cache) Close() { c.store.Close() }

// cacheEntry keeps the source alongside its program so that hash
// collisions are detected.
type cacheEntry struct {
	prog   *Program
	source string
}
