package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"weather-coordinates-service/internal/domain"
	"weather-coordinates-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

var ErrCityNotFound = errors.New("city not found")

// CityNotFoundError names the requested key and the keys that are served.
type CityNotFoundError struct {
	City      string
	Available []string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("City '%s' not found. Available cities: %s", e.City, strings.Join(e.Available, ", "))
}

func (e *CityNotFoundError) Unwrap() error { return ErrCityNotFound }

// CacheObserver is told whether a request was served from the cache.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type nopObserver struct{}

func (nopObserver) CacheHit()  {}
func (nopObserver) CacheMiss() {}

// CoordinatesResult is the data served by All.
type CoordinatesResult struct {
	Data      map[string]domain.CityResult
	FetchedAt time.Time
	Cached    bool
}

// CityLookupResult is the data served by City. Found is false when the city
// is configured but upstream had no match for it.
type CityLookupResult struct {
	Key       string
	Result    domain.CityResult
	Found     bool
	FetchedAt time.Time
	Cached    bool
}

type Option func(*CoordinateService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *CoordinateService) { s.now = now }
}

func WithObserver(o CacheObserver) Option {
	return func(s *CoordinateService) { s.observer = o }
}

func WithRefreshOptions(o RefreshOptions) Option {
	return func(s *CoordinateService) { s.refresh = o.withDefaults() }
}

// CoordinateService serves city coordinates from the shared cache and
// refreshes it from the geocoder when it goes stale.
//
// Concurrent requests that find the cache stale share a single refresh.
// The refresh is detached from the requesting context, so a client that
// disconnects does not abort a refresh other callers are waiting on.
type CoordinateService struct {
	geocoder ports.Geocoder
	registry *domain.CityRegistry
	cache    *CoordinateCache
	observer CacheObserver
	now      func() time.Time
	refresh  RefreshOptions

	group singleflight.Group
}

func NewCoordinateService(
	geocoder ports.Geocoder,
	registry *domain.CityRegistry,
	cache *CoordinateCache,
	opts ...Option,
) (*CoordinateService, error) {
	if geocoder == nil {
		return nil, errors.New("coordinate service: geocoder is nil")
	}
	if registry == nil {
		return nil, errors.New("coordinate service: registry is nil")
	}
	if cache == nil {
		return nil, errors.New("coordinate service: cache is nil")
	}

	s := &CoordinateService{
		geocoder: geocoder,
		registry: registry,
		cache:    cache,
		observer: nopObserver{},
		now:      time.Now,
		refresh:  RefreshOptions{}.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// All returns coordinates for every city, refreshing the cache if stale.
func (s *CoordinateService) All(ctx context.Context) (CoordinatesResult, error) {
	snap, cached, err := s.ensureFresh(ctx)
	if err != nil {
		return CoordinatesResult{}, fmt.Errorf("all coordinates: %w", err)
	}

	return CoordinatesResult{
		Data:      snap.Data,
		FetchedAt: snap.FetchedAt,
		Cached:    cached,
	}, nil
}

// City returns the cached entry for one city key (case-insensitive).
// Unknown keys fail with *CityNotFoundError before any upstream call.
func (s *CoordinateService) City(ctx context.Context, key string) (CityLookupResult, error) {
	city, ok := s.registry.Lookup(key)
	if !ok {
		return CityLookupResult{}, &CityNotFoundError{City: key, Available: s.registry.Keys()}
	}

	snap, cached, err := s.ensureFresh(ctx)
	if err != nil {
		return CityLookupResult{}, fmt.Errorf("city coordinates %q: %w", city.Key, err)
	}

	r, found := snap.Lookup(city.Key)
	if !found {
		r = domain.NoMatch()
	}
	return CityLookupResult{
		Key:       city.Key,
		Result:    r,
		Found:     found,
		FetchedAt: snap.FetchedAt,
		Cached:    cached,
	}, nil
}

type flightResult struct {
	snap      *Snapshot
	refreshed bool
}

const refreshKey = "coordinates"

// ensureFresh returns a fresh snapshot and whether it came from the cache
// without this call waiting on a refresh.
func (s *CoordinateService) ensureFresh(ctx context.Context) (*Snapshot, bool, error) {
	if snap, ok := s.cache.Load(); ok && IsFresh(snap, s.now(), s.cache.TTL()) {
		s.observer.CacheHit()
		return snap, true, nil
	}

	ch := s.group.DoChan(refreshKey, func() (any, error) {
		// A refresh that finished between our check and this flight is reused.
		if snap, ok := s.cache.Load(); ok && IsFresh(snap, s.now(), s.cache.TTL()) {
			return flightResult{snap: snap}, nil
		}

		data := RefreshCoordinates(context.WithoutCancel(ctx), s.geocoder, s.registry, s.refresh)
		return flightResult{snap: s.cache.Publish(data, s.now()), refreshed: true}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		fr := res.Val.(flightResult)
		if fr.refreshed {
			s.observer.CacheMiss()
			return fr.snap, false, nil
		}
		s.observer.CacheHit()
		return fr.snap, true, nil
	}
}
