package handlers

import (
	"net/http"
	"time"
	"weather-coordinates-service/internal/api/dto"
	"weather-coordinates-service/internal/platform/obs"
)

const (
	EndpointRoot        = "/"
	EndpointHealth      = "/health"
	EndpointCoordinates = "/coordinates"
	EndpointCity        = "/coordinates/{city}"
	EndpointMetrics     = "/metrics"
)

const (
	ServiceName    = "Weather Coordinates API"
	ServiceVersion = "1.0.0"
)

// InfoHandler serves service metadata and liveness.
type InfoHandler struct {
	Metrics *obs.Metrics
	Now     func() time.Time
}

func (h *InfoHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	h.Metrics.CountRequest(EndpointRoot, r.Method)

	writeJSON(w, r, http.StatusOK, dto.RootResponse{
		Message: ServiceName,
		Version: ServiceVersion,
		Endpoints: map[string]string{
			EndpointCoordinates: "Get coordinates for all cities",
			EndpointCity:        "Get coordinates for a specific city",
			EndpointHealth:      "Health check endpoint",
			EndpointMetrics:     "Prometheus metrics",
		},
	})
}

// Health provides a minimal liveness check endpoint. It never touches the cache.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	h.Metrics.CountRequest(EndpointHealth, r.Method)

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now(),
	})
}
