package server

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"github.com/poiesic/coursefinder/core"
)

// SessionStore maps session IDs to saved locations. Entries expire after
// the configured TTL and the oldest are evicted beyond the size limit.
type SessionStore struct {
	cache *ristretto.Cache[string, core.Location]
	ttl   time.Duration
}

// NewSessionStore creates a store holding up to maxSessions locations.
func NewSessionStore(ttl time.Duration, maxSessions int64) (*SessionStore, error) {
	if maxSessions < 1 {
		maxSessions = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, core.Location]{
		NumCounters:        maxSessions * 10,
		MaxCost:            maxSessions,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// NewID returns a fresh session ID.
func (s *SessionStore) NewID() string {
	return uuid.NewString()
}

// Location returns the location saved for id.
func (s *SessionStore) Location(id string) (core.Location, bool) {
	if !validID(id) {
		return core.Location{}, false
	}
	return s.cache.Get(id)
}

// Save stores loc for id. The write is visible to the next Location call.
func (s *SessionStore) Save(id string, loc core.Location) bool {
	if !validID(id) {
		return false
	}
	ok := s.cache.SetWithTTL(id, loc, 1, s.ttl)
	s.cache.Wait()
	return ok
}

// Close releases the store's background goroutines.
func (s *SessionStore) Close() {
	s.cache.Close()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
