package api

import (
	"net/http"
	"weather-coordinates-service/internal/api/handlers"
	"weather-coordinates-service/internal/platform/obs"
	"weather-coordinates-service/internal/services"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	// AllowedOrigins for CORS; empty means "*".
	AllowedOrigins []string
	// RateLimitPerSecond <= 0 disables rate limiting. When enabled it also
	// applies to the coordinates endpoints, which then answer 429 once the
	// bucket is empty.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	svc *services.CoordinateService,
	metrics *obs.Metrics,
	logger zerolog.Logger,
	opts RouterOptions,
) http.Handler {
	mux := http.NewServeMux()

	info := &handlers.InfoHandler{Metrics: metrics}
	coords := &handlers.CoordinatesHandler{Service: svc, Metrics: metrics}

	mux.HandleFunc("/{$}", info.Root)
	mux.HandleFunc(handlers.EndpointHealth, info.Health)
	mux.HandleFunc(handlers.EndpointCoordinates, coords.All)
	mux.HandleFunc(handlers.EndpointCity, coords.City)
	mux.Handle(handlers.EndpointMetrics, metrics.Handler())
	mux.HandleFunc("/", handlers.NotFound)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	var h http.Handler = corsHandler.Handler(mux)
	if opts.RateLimitPerSecond > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), burst)
		h = rateLimitMiddleware(limiter, []string{handlers.EndpointHealth, handlers.EndpointMetrics}, h)
	}

	return requestIDMiddleware(logger, loggingMiddleware(h))
}
