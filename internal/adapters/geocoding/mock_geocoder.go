package geocoding

import (
	"context"
	"sync"
	"weather-coordinates-service/internal/domain"
)

// MockEntry is the canned answer for one place name.
// A nil Coords with nil Err means "no match".
type MockEntry struct {
	Name   string
	Coords *domain.Coordinates
	Err    error
}

// MockGeocoder answers from a fixed table and counts calls per name.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]MockEntry
	calls map[string]int
}

func NewMockGeocoder(entries []MockEntry) *MockGeocoder {
	m := make(map[string]MockEntry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return &MockGeocoder{m: m, calls: make(map[string]int)}
}

func (g *MockGeocoder) Search(ctx context.Context, name string) (domain.Coordinates, bool, error) {
	g.mu.Lock()
	g.calls[name]++
	e, ok := g.m[name]
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, false, err
	}
	if !ok || (e.Coords == nil && e.Err == nil) {
		return domain.Coordinates{}, false, nil
	}
	if e.Err != nil {
		return domain.Coordinates{}, false, e.Err
	}
	return *e.Coords, true, nil
}

// Calls returns how many times name was searched.
func (g *MockGeocoder) Calls(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

// TotalCalls returns the number of searches across all names.
func (g *MockGeocoder) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}
