// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package distance

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursefinder/core"
)

const metersPerMile = 1609.34

// Service computes driving distances from a user location to every
// community college. Results are cached per location key.
type Service struct {
	router      Router
	colleges    []core.College
	cache       Cache
	keyFunc     KeyFunc
	callTimeout time.Duration
	poolSize    int
	pool        *ants.Pool
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithColleges replaces the default college list.
func WithColleges(colleges []core.College) Option {
	return func(s *Service) error {
		s.colleges = slices.Clone(colleges)
		return nil
	}
}

// WithCache sets the distance cache. Without one every lookup is computed.
func WithCache(cache Cache) Option {
	return func(s *Service) error {
		s.cache = cache
		return nil
	}
}

// WithKeyPolicy sets how locations map to cache keys.
// Default is ExactKey.
func WithKeyPolicy(fn KeyFunc) Option {
	return func(s *Service) error {
		if fn != nil {
			s.keyFunc = fn
		}
		return nil
	}
}

// WithCallTimeout bounds each routing call.
// Default is 10 seconds.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) error {
		if d > 0 {
			s.callTimeout = d
		}
		return nil
	}
}

// WithPoolSize sets the number of concurrent routing calls.
// Default is one per college.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a distance service that routes with router.
func NewService(router Router, opts ...Option) (*Service, error) {
	if router == nil {
		return nil, ErrRouterRequired
	}

	s := &Service{
		router:      router,
		colleges:    DefaultColleges(),
		keyFunc:     ExactKey,
		callTimeout: 10 * time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "distance")

	if s.poolSize == 0 {
		s.poolSize = max(len(s.colleges), 1)
	}
	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Colleges returns the colleges distances are computed for.
func (s *Service) Colleges() []core.College {
	return slices.Clone(s.colleges)
}

// Between returns the driving distance in miles rounded to two decimals,
// or nil when either point is missing or routing fails.
func (s *Service) Between(ctx context.Context, origin, dest *core.Location) *float64 {
	if origin == nil || dest == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	meters, err := s.router.Route(callCtx, *origin, *dest)
	if err != nil {
		s.logger.Warn("route lookup failed", "err", err)
		return nil
	}
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		s.logger.Warn("route returned unusable distance", "meters", meters)
		return nil
	}

	miles := math.Round(meters/metersPerMile*100) / 100
	return &miles
}

// AllDistances returns the distance from loc to every college. Colleges whose
// route could not be computed map to nil. A cached result is returned without
// any routing calls.
func (s *Service) AllDistances(ctx context.Context, loc core.Location) (core.CollegeDistances, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	key := s.keyFunc(loc)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("distance cache read failed", "key", key, "err", err)
		} else if ok {
			s.logger.Debug("distance cache hit", "key", key)
			return cached, nil
		}
	}

	distances := make(core.CollegeDistances, len(s.colleges))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, college := range s.colleges {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			miles := s.Between(ctx, &loc, &college.Location)
			mu.Lock()
			distances[college.Name] = miles
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("could not schedule route lookup", "college", college.Name, "err", err)
			mu.Lock()
			distances[college.Name] = nil
			mu.Unlock()
		}
	}
	wg.Wait()

	// Unknown distances are only final for this request. An aborted request
	// or a routing outage must not pin them for later callers.
	if s.cache != nil && ctx.Err() == nil && anyKnown(distances) {
		if err := s.cache.Set(ctx, key, distances); err != nil {
			s.logger.Warn("distance cache write failed", "key", key, "err", err)
		}
	}

	return distances, nil
}

func anyKnown(distances core.CollegeDistances) bool {
	for _, miles := range distances {
		if miles != nil {
			return true
		}
	}
	return false
}

// Release releases the worker pool.
// The service should not be used after calling Release.
func (s *Service) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
