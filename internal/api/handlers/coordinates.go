package handlers

import (
	"errors"
	"net/http"
	"time"
	"weather-coordinates-service/internal/api/dto"
	"weather-coordinates-service/internal/platform/obs"
	"weather-coordinates-service/internal/services"

	"github.com/rs/zerolog"
)

// CoordinatesHandler exposes the cached city coordinates.
type CoordinatesHandler struct {
	Service *services.CoordinateService
	Metrics *obs.Metrics
}

// All serves every city. Upstream failures never fail the request: affected
// cities carry an error entry instead.
func (h *CoordinatesHandler) All(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	start := time.Now()
	h.Metrics.CountRequest(EndpointCoordinates, r.Method)
	defer h.Metrics.ObserveSince(EndpointCoordinates, start)

	res, err := h.Service.All(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("all coordinates aborted")
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	out := dto.CoordinatesResponse{
		Data:   dto.FromResults(res.Data),
		Cached: res.Cached,
	}
	at := res.FetchedAt
	if res.Cached {
		out.CachedAt = &at
	} else {
		out.FetchedAt = &at
	}

	writeJSON(w, r, http.StatusOK, out)
}

// City serves one city. Unknown keys get 404 listing the configured keys.
func (h *CoordinatesHandler) City(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	start := time.Now()
	h.Metrics.CountRequest(EndpointCity, r.Method)
	defer h.Metrics.ObserveSince(EndpointCity, start)

	res, err := h.Service.City(r.Context(), r.PathValue("city"))
	if err != nil {
		var nf *services.CityNotFoundError
		if errors.As(err, &nf) {
			writeError(w, r, http.StatusNotFound, nf.Error())
			return
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("city coordinates aborted")
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CityCoordinatesResponse{
		City:     res.Key,
		Data:     dto.FromResult(res.Result),
		Cached:   res.Cached,
		CachedAt: res.FetchedAt,
	})
}
