package dto

import (
	"encoding/json"
	"time"
	"weather-coordinates-service/internal/domain"
)

// CityCoordinate is the wire form of one city entry: the five coordinate
// fields on success (null where upstream omitted one), only "error" on a
// failed lookup, or {} when there is no entry.
type CityCoordinate struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   *string  `json:"country"`
	Timezone  *string  `json:"timezone"`
	Error     *string  `json:"error,omitempty"`

	resolved bool
}

type coordinateBody struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   *string  `json:"country"`
	Timezone  *string  `json:"timezone"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c CityCoordinate) MarshalJSON() ([]byte, error) {
	switch {
	case c.Error != nil:
		return json.Marshal(errorBody{Error: *c.Error})
	case !c.resolved:
		return []byte("{}"), nil
	default:
		return json.Marshal(coordinateBody{
			Name:      c.Name,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Country:   c.Country,
			Timezone:  c.Timezone,
		})
	}
}

func FromResult(r domain.CityResult) CityCoordinate {
	switch r.Kind {
	case domain.ResultOK:
		c := r.Coordinates
		return CityCoordinate{
			Name:      c.Name,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Country:   c.Country,
			Timezone:  c.Timezone,
			resolved:  true,
		}
	case domain.ResultFailed:
		reason := r.Reason
		return CityCoordinate{Error: &reason}
	default:
		return CityCoordinate{}
	}
}

func FromResults(m map[string]domain.CityResult) map[string]CityCoordinate {
	out := make(map[string]CityCoordinate, len(m))
	for k, v := range m {
		if v.Kind == domain.ResultNoMatch {
			continue
		}
		out[k] = FromResult(v)
	}
	return out
}

// Exactly one of CachedAt / FetchedAt is set, depending on Cached.
type CoordinatesResponse struct {
	Data      map[string]CityCoordinate `json:"data"`
	Cached    bool                      `json:"cached"`
	CachedAt  *time.Time                `json:"cached_at,omitempty"`
	FetchedAt *time.Time                `json:"fetched_at,omitempty"`
}

type CityCoordinatesResponse struct {
	City     string         `json:"city"`
	Data     CityCoordinate `json:"data"`
	Cached   bool           `json:"cached"`
	CachedAt time.Time      `json:"cached_at"`
}
