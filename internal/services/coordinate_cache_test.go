package services

import (
	"testing"
	"time"
	"weather-coordinates-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFresh(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	snap := &Snapshot{FetchedAt: fetched}

	tests := []struct {
		name string
		snap *Snapshot
		now  time.Time
		want bool
	}{
		{name: "empty cache", snap: nil, now: fetched, want: false},
		{name: "just fetched", snap: snap, now: fetched, want: true},
		{name: "inside ttl", snap: snap, now: fetched.Add(59 * time.Minute), want: true},
		{name: "exactly ttl", snap: snap, now: fetched.Add(time.Hour), want: false},
		{name: "past ttl", snap: snap, now: fetched.Add(2 * time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFresh(tt.snap, tt.now, time.Hour))
		})
	}
}

func TestCoordinateCacheStartsEmpty(t *testing.T) {
	c := NewCoordinateCache(0)

	assert.Equal(t, DefaultTTL, c.TTL())
	_, ok := c.Load()
	assert.False(t, ok)
	assert.False(t, c.Valid(time.Now()))
}

func TestCoordinateCachePublishReplacesWholesale(t *testing.T) {
	c := NewCoordinateCache(time.Hour)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	first := c.Publish(map[string]domain.CityResult{
		"a": domain.OK(domain.Coordinates{Name: ptr("A")}),
		"b": domain.Failed("boom"),
	}, now)

	input := map[string]domain.CityResult{
		"a": domain.OK(domain.Coordinates{Name: ptr("A2")}),
		"c": domain.NoMatch(),
	}
	second := c.Publish(input, now.Add(time.Minute))

	got, ok := c.Load()
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, now.Add(time.Minute), got.FetchedAt)

	_, hasB := got.Lookup("b")
	assert.False(t, hasB, "entries from the previous refresh must not survive")
	_, hasC := got.Lookup("c")
	assert.False(t, hasC, "no-match entries are not published")

	a, _ := got.Lookup("a")
	assert.Equal(t, ptr("A2"), a.Coordinates.Name)

	// Earlier snapshot is untouched and later edits to the input do not leak in.
	assert.Len(t, first.Data, 2)
	input["z"] = domain.Failed("late")
	_, hasZ := got.Lookup("z")
	assert.False(t, hasZ)
}

func TestCoordinateCacheValidAndClear(t *testing.T) {
	c := NewCoordinateCache(time.Hour)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	c.Publish(map[string]domain.CityResult{}, now)
	assert.True(t, c.Valid(now.Add(30*time.Minute)))
	assert.False(t, c.Valid(now.Add(61*time.Minute)))

	c.Clear()
	assert.False(t, c.Valid(now))
}
