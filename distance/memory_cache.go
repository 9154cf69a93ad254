package distance

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/poiesic/coursefinder/core"
)

// MemoryCache is an in-process Cache backed by ristretto.
type MemoryCache struct {
	cache    *ristretto.Cache[string, core.CollegeDistances]
	settings cacheSettings
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an in-process cache. Every entry costs one unit,
// so WithMaxEntries is the entry limit.
func NewMemoryCache(opts ...CacheOption) (*MemoryCache, error) {
	settings := defaultCacheSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, core.CollegeDistances]{
		NumCounters:        settings.maxEntries * 10,
		MaxCost:            settings.maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{cache: cache, settings: settings}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (core.CollegeDistances, bool, error) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return cloneDistances(value), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, distances core.CollegeDistances) error {
	c.cache.SetWithTTL(key, cloneDistances(distances), 1, c.settings.ttl)
	c.cache.Wait()
	return nil
}

// Close stops the cache's background goroutines.
func (c *MemoryCache) Close() {
	c.cache.Close()
}
