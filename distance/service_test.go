package distance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/coursefinder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouter struct {
	calls  atomic.Int64
	meters map[core.Location]float64
	failAt map[core.Location]bool
}

func (r *fakeRouter) Route(ctx context.Context, origin, dest core.Location) (float64, error) {
	r.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.failAt[dest] {
		return 0, ErrNoRoute
	}
	return r.meters[dest], nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (core.CollegeDistances, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, core.CollegeDistances) error {
	return errors.New("cache down")
}

var (
	essex  = core.College{Name: "Essex County College", Location: core.Location{Latitude: 40.7484, Longitude: -74.1724}}
	bergen = core.College{Name: "Bergen Community College", Location: core.Location{Latitude: 40.9367, Longitude: -74.0739}}
	salem  = core.College{Name: "Salem Community College", Location: core.Location{Latitude: 39.6794, Longitude: -75.4489}}
	home   = core.Location{Latitude: 40.5008, Longitude: -74.4474}
)

func newTestRouter() *fakeRouter {
	return &fakeRouter{
		meters: map[core.Location]float64{
			essex.Location:  16093.4,
			bergen.Location: 45000,
		},
		failAt: map[core.Location]bool{salem.Location: true},
	}
}

func TestNewService(t *testing.T) {
	t.Run("requires router", func(t *testing.T) {
		_, err := NewService(nil)
		assert.ErrorIs(t, err, ErrRouterRequired)
	})

	t.Run("defaults to the community college list", func(t *testing.T) {
		s, err := NewService(newTestRouter())
		require.NoError(t, err)
		defer s.Release()

		assert.Len(t, s.Colleges(), 19)
	})
}

func TestServiceBetween(t *testing.T) {
	router := newTestRouter()
	s, err := NewService(router)
	require.NoError(t, err)
	defer s.Release()

	ctx := context.Background()

	miles := s.Between(ctx, &home, &essex.Location)
	require.NotNil(t, miles)
	assert.Equal(t, 10.0, *miles)

	miles = s.Between(ctx, &home, &bergen.Location)
	require.NotNil(t, miles)
	assert.Equal(t, 27.96, *miles)

	assert.Nil(t, s.Between(ctx, nil, &essex.Location))
	assert.Nil(t, s.Between(ctx, &home, nil))
	assert.Nil(t, s.Between(ctx, &home, &salem.Location))
}

func TestServiceAllDistances(t *testing.T) {
	ctx := context.Background()

	t.Run("failed routes map to nil", func(t *testing.T) {
		router := newTestRouter()
		s, err := NewService(router, WithColleges([]core.College{essex, bergen, salem}))
		require.NoError(t, err)
		defer s.Release()

		distances, err := s.AllDistances(ctx, home)
		require.NoError(t, err)

		require.Len(t, distances, 3)
		require.NotNil(t, distances[essex.Name])
		assert.Equal(t, 10.0, *distances[essex.Name])
		require.NotNil(t, distances[bergen.Name])
		assert.Equal(t, 27.96, *distances[bergen.Name])
		v, ok := distances[salem.Name]
		assert.True(t, ok)
		assert.Nil(t, v)
		assert.EqualValues(t, 3, router.calls.Load())
	})

	t.Run("cached location makes no routing calls", func(t *testing.T) {
		router := newTestRouter()
		cache, err := NewMemoryCache()
		require.NoError(t, err)
		defer cache.Close()

		s, err := NewService(router,
			WithColleges([]core.College{essex, bergen}),
			WithCache(cache),
			WithPoolSize(1),
		)
		require.NoError(t, err)
		defer s.Release()

		first, err := s.AllDistances(ctx, home)
		require.NoError(t, err)
		assert.EqualValues(t, 2, router.calls.Load())

		second, err := s.AllDistances(ctx, home)
		require.NoError(t, err)
		assert.EqualValues(t, 2, router.calls.Load())
		assert.Equal(t, first, second)
	})

	t.Run("rounded keys share nearby entries", func(t *testing.T) {
		router := newTestRouter()
		cache, err := NewMemoryCache()
		require.NoError(t, err)
		defer cache.Close()

		s, err := NewService(router,
			WithColleges([]core.College{essex}),
			WithCache(cache),
			WithKeyPolicy(RoundedKey(0.01)),
		)
		require.NoError(t, err)
		defer s.Release()

		_, err = s.AllDistances(ctx, home)
		require.NoError(t, err)
		_, err = s.AllDistances(ctx, core.Location{Latitude: home.Latitude + 0.001, Longitude: home.Longitude})
		require.NoError(t, err)
		assert.EqualValues(t, 1, router.calls.Load())
	})

	t.Run("cache failures do not fail the lookup", func(t *testing.T) {
		router := newTestRouter()
		s, err := NewService(router, WithColleges([]core.College{essex}), WithCache(failingCache{}))
		require.NoError(t, err)
		defer s.Release()

		distances, err := s.AllDistances(ctx, home)
		require.NoError(t, err)
		require.NotNil(t, distances[essex.Name])
	})

	t.Run("invalid location", func(t *testing.T) {
		router := newTestRouter()
		s, err := NewService(router)
		require.NoError(t, err)
		defer s.Release()

		_, err = s.AllDistances(ctx, core.Location{Latitude: 91, Longitude: 0})
		assert.ErrorIs(t, err, core.ErrInvalidLocation)
		assert.Zero(t, router.calls.Load())
	})

	t.Run("cancelled context yields unknown distances", func(t *testing.T) {
		router := newTestRouter()
		s, err := NewService(router, WithColleges([]core.College{essex, bergen}))
		require.NoError(t, err)
		defer s.Release()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		distances, err := s.AllDistances(cancelled, home)
		require.NoError(t, err)
		assert.Nil(t, distances[essex.Name])
		assert.Nil(t, distances[bergen.Name])
	})

	t.Run("cancelled request is not cached", func(t *testing.T) {
		router := newTestRouter()
		cache, err := NewMemoryCache()
		require.NoError(t, err)
		defer cache.Close()

		s, err := NewService(router, WithColleges([]core.College{essex, bergen}), WithCache(cache))
		require.NoError(t, err)
		defer s.Release()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = s.AllDistances(cancelled, home)
		require.NoError(t, err)
		before := router.calls.Load()

		distances, err := s.AllDistances(ctx, home)
		require.NoError(t, err)
		assert.EqualValues(t, before+2, router.calls.Load())
		require.NotNil(t, distances[essex.Name])
		assert.Equal(t, 10.0, *distances[essex.Name])
	})

	t.Run("total routing failure is not cached", func(t *testing.T) {
		router := newTestRouter()
		cache, err := NewMemoryCache()
		require.NoError(t, err)
		defer cache.Close()

		s, err := NewService(router, WithColleges([]core.College{salem}), WithCache(cache))
		require.NoError(t, err)
		defer s.Release()

		for range 2 {
			distances, err := s.AllDistances(ctx, home)
			require.NoError(t, err)
			assert.Nil(t, distances[salem.Name])
		}
		assert.EqualValues(t, 2, router.calls.Load())

		_, ok, err := cache.Get(ctx, ExactKey(home))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lookups run concurrently", func(t *testing.T) {
		colleges := DefaultColleges()
		router := newBarrierRouter(len(colleges))
		s, err := NewService(router, WithCallTimeout(5*time.Second))
		require.NoError(t, err)
		defer s.Release()

		distances, err := s.AllDistances(ctx, home)
		require.NoError(t, err)
		require.Len(t, distances, len(colleges))
		for _, college := range colleges {
			assert.NotNil(t, distances[college.Name], college.Name)
		}
	})
}

// barrierRouter blocks every call until n calls are in flight at once.
// A serial fan-out never reaches the barrier and times out.
type barrierRouter struct {
	arrived sync.WaitGroup
}

func newBarrierRouter(n int) *barrierRouter {
	r := &barrierRouter{}
	r.arrived.Add(n)
	return r
}

func (r *barrierRouter) Route(ctx context.Context, origin, dest core.Location) (float64, error) {
	r.arrived.Done()
	done := make(chan struct{})
	go func() {
		r.arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
		return 1609.34, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
