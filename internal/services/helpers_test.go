package services

import (
	"context"
	"sync"
	"testing"
	"time"
	"weather-coordinates-service/internal/adapters/geocoding"
	"weather-coordinates-service/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type countingObserver struct {
	mu           sync.Mutex
	hits, misses int
}

func (o *countingObserver) CacheHit() {
	o.mu.Lock()
	o.hits++
	o.mu.Unlock()
}

func (o *countingObserver) CacheMiss() {
	o.mu.Lock()
	o.misses++
	o.mu.Unlock()
}

func (o *countingObserver) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits, o.misses
}

func testRegistry(t *testing.T) *domain.CityRegistry {
	t.Helper()

	reg, err := domain.NewCityRegistry([]domain.City{
		{Key: "tel-aviv", Name: "Tel Aviv"},
		{Key: "beer-sheva", Name: "Beersheba"},
		{Key: "jerusalem", Name: "Jerusalem"},
		{Key: "szeged", Name: "Szeged"},
	})
	require.NoError(t, err)
	return reg
}

func coords(name string, lat, lon float64, country, tz string) *domain.Coordinates {
	return &domain.Coordinates{Name: &name, Latitude: &lat, Longitude: &lon, Country: &country, Timezone: &tz}
}

func allCitiesGeocoder() *geocoding.MockGeocoder {
	return geocoding.NewMockGeocoder([]geocoding.MockEntry{
		{Name: "Tel Aviv", Coords: coords("Tel Aviv", 32.08088, 34.78057, "Israel", "Asia/Jerusalem")},
		{Name: "Beersheba", Coords: coords("Beersheba", 31.25181, 34.7913, "Israel", "Asia/Jerusalem")},
		{Name: "Jerusalem", Coords: coords("Jerusalem", 31.76904, 35.21633, "Israel", "Asia/Jerusalem")},
		{Name: "Szeged", Coords: coords("Szeged", 46.253, 20.14824, "Hungary", "Europe/Budapest")},
	})
}

// blockingGeocoder waits on release before answering every search.
type blockingGeocoder struct {
	release chan struct{}
	inner   *geocoding.MockGeocoder
}

func (g *blockingGeocoder) Search(ctx context.Context, name string) (domain.Coordinates, bool, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return domain.Coordinates{}, false, ctx.Err()
	}
	return g.inner.Search(ctx, name)
}

// slowGeocoder never answers for slow, so the per-city timeout fires.
type slowGeocoder struct {
	slow  string
	inner *geocoding.MockGeocoder
}

func (g *slowGeocoder) Search(ctx context.Context, name string) (domain.Coordinates, bool, error) {
	if name == g.slow {
		<-ctx.Done()
		return domain.Coordinates{}, false, ctx.Err()
	}
	return g.inner.Search(ctx, name)
}

func ptr[T any](v T) *T { return &v }
