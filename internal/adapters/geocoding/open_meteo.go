package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"weather-coordinates-service/internal/domain"
	"weather-coordinates-service/internal/platform/obs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

type searchResponse struct {
	Results []struct {
		Name      *string  `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Country   *string  `json:"country"`
		Timezone  *string  `json:"timezone"`
	} `json:"results"`
}

// OpenMeteoGeocoder implements Geocoder using the Open-Meteo geocoding search API.
//
// Each Search issues exactly one request; there is no retry. The geocoder is
// safe for concurrent use.
type OpenMeteoGeocoder struct {
	session  *http.Client
	baseURL  string
	language string
	tracer   trace.Tracer
}

type Option func(*OpenMeteoGeocoder)

// WithTracerProvider sets where Search spans go. The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *OpenMeteoGeocoder) { g.tracer = tp.Tracer("OpenMeteoGeocoder") }
}

func NewOpenMeteoGeocoder(baseURL string, timeout time.Duration, opts ...Option) (*OpenMeteoGeocoder, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("open-meteo base url is empty")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("open-meteo timeout must be positive, got %s", timeout)
	}

	g := &OpenMeteoGeocoder{
		session:  &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		language: "en",
		tracer:   otel.GetTracerProvider().Tracer("OpenMeteoGeocoder"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Search resolves name via /v1/search and returns the first result.
func (g *OpenMeteoGeocoder) Search(
	ctx context.Context,
	name string,
) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "openmeteo.Search")(&err)

	ctx, span := g.tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("geocoding.name", name))

	coords, found, err := g.search(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding search failed")
		return domain.Coordinates{}, false, err
	}

	span.SetAttributes(attribute.Bool("geocoding.found", found))
	return coords, found, nil
}

func (g *OpenMeteoGeocoder) search(ctx context.Context, name string) (domain.Coordinates, bool, error) {
	req, err := g.newRequest(ctx, http.MethodGet, g.baseURL)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("search %q: %w", name, err)
	}

	q := req.URL.Query()
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("language", g.language)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := g.do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("search %q: %w", name, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("search %q: decode response: %w", name, err)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, false, nil
	}

	first := decoded.Results[0]
	return domain.Coordinates{
		Name:      first.Name,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Country:   first.Country,
		Timezone:  first.Timezone,
	}, true, nil
}
