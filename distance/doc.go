// Package distance computes driving distances from a user's location to
// New Jersey community colleges.
//
// A Service fans routing calls out over an ants worker pool, one call per
// college, and caches the resulting map per location. Routing is provided by
// a Router; MapboxRouter talks to the Mapbox Directions API. Caches are
// pluggable: MemoryCache keeps results in process with ristretto and
// RedisCache shares them across processes.
//
// A failed route never fails the whole lookup. The college simply maps to a
// nil distance and sorts last when equivalencies are ranked.
package distance
