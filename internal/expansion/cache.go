package expansion

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of expansions kept by NewCachedExpander when size <= 0.
const DefaultCacheSize = 1024

// CachedExpander memoizes expansions in an LRU cache. Cached values are
// cloned on the way out so callers never share slices.
type CachedExpander struct {
	inner *Expander
	cache *lru.Cache[string, ExpandedQuery]
}

// NewCachedExpander wraps inner with an LRU of the given size.
func NewCachedExpander(inner *Expander, size int) (*CachedExpander, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, ExpandedQuery](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create expansion cache: %w", err)
	}
	return &CachedExpander{inner: inner, cache: cache}, nil
}

// Expand expands query with the inner expander's options.
func (c *CachedExpander) Expand(query string) ExpandedQuery {
	return c.ExpandWith(query, c.inner.Options())
}

// ExpandWith expands query with explicit options, consulting the cache first.
func (c *CachedExpander) ExpandWith(query string, opts Options) ExpandedQuery {
	key := cacheKey(query, opts)
	if cached, ok := c.cache.Get(key); ok {
		return cached.Clone()
	}
	result := c.inner.ExpandWith(query, opts)
	c.cache.Add(key, result.Clone())
	return result
}

// Len returns the number of cached expansions.
func (c *CachedExpander) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *CachedExpander) Purge() {
	c.cache.Purge()
}

func cacheKey(query string, opts Options) string {
	return fmt.Sprintf("%d|%t|%t|%s", opts.MaxSynonyms, opts.IncludeOriginal, opts.LanguageMix, query)
}
