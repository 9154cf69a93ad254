package distance

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/poiesic/coursefinder/core"
)

// Cache stores computed distance maps keyed by a location key.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached distances for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) (core.CollegeDistances, bool, error)

	// Set stores distances under key.
	Set(ctx context.Context, key string, distances core.CollegeDistances) error
}

// KeyFunc derives a cache key from a user location.
type KeyFunc func(core.Location) string

// ExactKey keys the cache on the exact coordinates.
func ExactKey(l core.Location) string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// RoundedKey buckets coordinates onto a grid of step degrees so nearby
// locations share a cache entry. A non-positive step falls back to ExactKey.
func RoundedKey(step float64) KeyFunc {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return ExactKey
	}
	return func(l core.Location) string {
		lat := int64(math.Round(l.Latitude / step))
		lon := int64(math.Round(l.Longitude / step))
		return "grid:" + strconv.FormatFloat(step, 'f', -1, 64) + ":" +
			strconv.FormatInt(lat, 10) + "," + strconv.FormatInt(lon, 10)
	}
}

type cacheSettings struct {
	ttl        time.Duration
	maxEntries int64
	keyPrefix  string
}

func defaultCacheSettings() cacheSettings {
	return cacheSettings{
		ttl:        24 * time.Hour,
		maxEntries: 10000,
		keyPrefix:  "coursefinder:distances:",
	}
}

// CacheOption configures a Cache implementation.
type CacheOption func(*cacheSettings)

// WithTTL sets how long entries live. Zero disables expiry.
func WithTTL(ttl time.Duration) CacheOption {
	return func(s *cacheSettings) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the in-memory cache size.
func WithMaxEntries(n int64) CacheOption {
	return func(s *cacheSettings) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithKeyPrefix namespaces keys in a shared Redis instance.
func WithKeyPrefix(prefix string) CacheOption {
	return func(s *cacheSettings) {
		s.keyPrefix = prefix
	}
}

func cloneDistances(d core.CollegeDistances) core.CollegeDistances {
	if d == nil {
		return nil
	}
	out := make(core.CollegeDistances, len(d))
	for name, miles := range d {
		if miles == nil {
			out[name] = nil
			continue
		}
		v := *miles
		out[name] = &v
	}
	return out
}
