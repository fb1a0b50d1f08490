package ports

import (
	"context"
	"weather-coordinates-service/internal/domain"
)

// Contract for resolving a place name to coordinates.
type Geocoder interface {
	// Return the first upstream match for name.
	// found is false (with a nil error) when the service answered with no results.
	Search(ctx context.Context, name string) (coords domain.Coordinates, found bool, err error)
}
