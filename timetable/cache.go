package timetable

import (
	"sync"
	"time"
)

type cacheEntry struct {
	departures []Departure
	storedAt   time.Time
}

// departureCache holds normalized departures per stop. Entries are replaced
// whole and expire by TTL only; stale entries stay readable for the
// failure-fallback path.
type departureCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newDepartureCache(ttl time.Duration) *departureCache {
	return &departureCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached departures for a stop and whether the entry is
// still within its TTL. ok is false when the stop was never cached.
func (c *departureCache) get(stopID string) (deps []Departure, fresh bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[stopID]
	if !ok {
		return nil, false, false
	}
	return e.departures, c.now().Sub(e.storedAt) < c.ttl, true
}

func (c *departureCache) put(stopID string, deps []Departure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stopID] = cacheEntry{departures: deps, storedAt: c.now()}
}
