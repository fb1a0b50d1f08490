package services

import (
	"sync/atomic"
	"time"
	"weather-coordinates-service/internal/domain"
)

// DefaultTTL is how long a published snapshot stays fresh.
const DefaultTTL = time.Hour

// Snapshot is one complete, published refresh. It is never mutated after
// Publish; readers may share it freely.
type Snapshot struct {
	Data      map[string]domain.CityResult
	FetchedAt time.Time
}

// Lookup returns the entry for key. ok is false when the city was omitted
// because upstream had no match for it.
func (s *Snapshot) Lookup(key string) (domain.CityResult, bool) {
	r, ok := s.Data[key]
	return r, ok
}

// IsFresh reports whether snap is present and younger than ttl at now.
func IsFresh(snap *Snapshot, now time.Time, ttl time.Duration) bool {
	if snap == nil {
		return false
	}
	return now.Sub(snap.FetchedAt) < ttl
}

// CoordinateCache is the single shared cache slot. Data and fetch time are
// held together in one pointer, so they are either both unset or both set,
// and a reader never observes a half-published refresh.
type CoordinateCache struct {
	ttl  time.Duration
	snap atomic.Pointer[Snapshot]
}

func NewCoordinateCache(ttl time.Duration) *CoordinateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CoordinateCache{ttl: ttl}
}

func (c *CoordinateCache) TTL() time.Duration { return c.ttl }

// Load returns the current snapshot, or false if nothing was published yet.
func (c *CoordinateCache) Load() (*Snapshot, bool) {
	s := c.snap.Load()
	return s, s != nil
}

// Valid reports whether the current snapshot is fresh at now.
func (c *CoordinateCache) Valid(now time.Time) bool {
	return IsFresh(c.snap.Load(), now, c.ttl)
}

// Publish replaces the cached record wholesale. The map is copied and
// no-match entries are dropped so the stored data only holds Ok and Failed.
func (c *CoordinateCache) Publish(data map[string]domain.CityResult, now time.Time) *Snapshot {
	cp := make(map[string]domain.CityResult, len(data))
	for k, v := range data {
		if v.Kind == domain.ResultNoMatch {
			continue
		}
		cp[k] = v
	}

	s := &Snapshot{Data: cp, FetchedAt: now}
	c.snap.Store(s)
	return s
}

// Clear drops the cached record.
func (c *CoordinateCache) Clear() {
	c.snap.Store(nil)
}
