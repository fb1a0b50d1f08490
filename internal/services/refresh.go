package services

import (
	"context"
	"time"
	"weather-coordinates-service/internal/domain"
	"weather-coordinates-service/internal/platform/obs"
	"weather-coordinates-service/internal/ports"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFetchTimeout     = 30 * time.Second
	DefaultFetchConcurrency = 4
)

type RefreshOptions struct {
	// Timeout bounds each city lookup individually.
	Timeout time.Duration
	// Concurrency caps in-flight lookups.
	Concurrency int
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

func (o RefreshOptions) withDefaults() RefreshOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultFetchTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultFetchConcurrency
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	return o
}

// RefreshCoordinates looks up every registered city and returns a complete map.
//
// A failed lookup is recorded as a Failed entry for that city only; a lookup
// with no match leaves the city out. Nothing is retried and no shared state
// is touched: publishing the result is up to the caller.
func RefreshCoordinates(
	ctx context.Context,
	geocoder ports.Geocoder,
	registry *domain.CityRegistry,
	opts RefreshOptions,
) map[string]domain.CityResult {
	defer obs.Time(ctx, "coordinates.Refresh")(nil)

	opts = opts.withDefaults()
	ctx, span := opts.TracerProvider.Tracer("CoordinateService").Start(ctx, "RefreshCoordinates")
	defer span.End()
	if id := obs.RequestID(ctx); id != "" {
		span.SetAttributes(attribute.String("refresh.request_id", id))
	}

	cities := registry.Cities()
	results := make([]domain.CityResult, len(cities))
	logger := zerolog.Ctx(ctx)

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for i, city := range cities {
		g.Go(func() error {
			results[i] = lookupCity(ctx, geocoder, city, opts.Timeout, logger)
			return nil
		})
	}
	// Lookups never return errors; failures are carried in results.
	_ = g.Wait()

	out := make(map[string]domain.CityResult, len(cities))
	failed, omitted := 0, 0
	for i, city := range cities {
		switch results[i].Kind {
		case domain.ResultNoMatch:
			omitted++
			continue
		case domain.ResultFailed:
			failed++
		}
		out[city.Key] = results[i]
	}

	span.SetAttributes(
		attribute.Int("cities.count", len(cities)),
		attribute.Int("cities.failed", failed),
		attribute.Int("cities.omitted", omitted),
	)
	logger.Info().
		Int("cities", len(cities)).
		Int("failed", failed).
		Int("omitted", omitted).
		Msg("coordinates refreshed")

	return out
}

func lookupCity(
	ctx context.Context,
	geocoder ports.Geocoder,
	city domain.City,
	timeout time.Duration,
	logger *zerolog.Logger,
) domain.CityResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	coords, found, err := geocoder.Search(ctx, city.Name)
	if err != nil {
		logger.Warn().Str("city", city.Key).Err(err).Msg("geocoding lookup failed")
		return domain.Failed(err.Error())
	}
	if !found {
		logger.Info().Str("city", city.Key).Str("name", city.Name).Msg("geocoding returned no match")
		return domain.NoMatch()
	}
	return domain.OK(coords)
}
