package domain

import (
	"errors"
	"fmt"
	"strings"
)

// A configured city: a lowercase slug and the display name sent upstream.
type City struct {
	Key  string
	Name string
}

// Immutable, ordered set of cities served by the API.
// Keys are stored lower-cased; Lookup is case-insensitive.
type CityRegistry struct {
	cities []City
	index  map[string]int
}

func NewCityRegistry(cities []City) (*CityRegistry, error) {
	if len(cities) == 0 {
		return nil, errors.New("city registry: at least one city is required")
	}

	r := &CityRegistry{
		cities: make([]City, 0, len(cities)),
		index:  make(map[string]int, len(cities)),
	}
	for _, c := range cities {
		key := strings.ToLower(strings.TrimSpace(c.Key))
		name := strings.TrimSpace(c.Name)
		if key == "" {
			return nil, errors.New("city registry: empty city key")
		}
		if name == "" {
			return nil, fmt.Errorf("city registry: empty display name for %q", key)
		}
		if _, ok := r.index[key]; ok {
			return nil, fmt.Errorf("city registry: duplicate city key %q", key)
		}

		r.index[key] = len(r.cities)
		r.cities = append(r.cities, City{Key: key, Name: name})
	}

	return r, nil
}

// Lookup resolves a city key regardless of case.
func (r *CityRegistry) Lookup(key string) (City, bool) {
	i, ok := r.index[strings.ToLower(key)]
	if !ok {
		return City{}, false
	}
	return r.cities[i], true
}

// Cities returns a copy of the configured cities in configuration order.
func (r *CityRegistry) Cities() []City {
	out := make([]City, len(r.cities))
	copy(out, r.cities)
	return out
}

// Keys returns city keys in configuration order.
func (r *CityRegistry) Keys() []string {
	out := make([]string, 0, len(r.cities))
	for _, c := range r.cities {
		out = append(out, c.Key)
	}
	return out
}
