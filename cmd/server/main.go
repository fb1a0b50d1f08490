package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"weather-coordinates-service/internal/adapters/geocoding"
	"weather-coordinates-service/internal/api"
	"weather-coordinates-service/internal/api/handlers"
	"weather-coordinates-service/internal/config"
	"weather-coordinates-service/internal/platform/obs"
	"weather-coordinates-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

// main is the application composition root.
// It wires the Open-Meteo geocoder, the coordinate cache and the HTTP API.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(config.Get("CONFIG_FILE", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := obs.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if envErr != nil {
		logger.Info().Msg("No .env file found (using environment variables)")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	tp, shutdownTracing, err := obs.NewTracerProvider(obs.TracingOptions{
		Enabled:        cfg.Tracing.Enabled,
		SampleRatio:    cfg.Tracing.SampleRatio,
		ServiceVersion: handlers.ServiceVersion,
	}, os.Stdout)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	otel.SetTracerProvider(tp)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	geocoder, err := geocoding.NewOpenMeteoGeocoder(
		cfg.Geocoding.BaseURL,
		cfg.Geocoding.Timeout,
		geocoding.WithTracerProvider(tp),
	)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	metrics := obs.NewMetrics()
	svc, err := services.NewCoordinateService(
		geocoder,
		registry,
		services.NewCoordinateCache(cfg.Cache.TTL),
		services.WithObserver(metrics),
		services.WithRefreshOptions(services.RefreshOptions{
			Timeout:        cfg.Geocoding.Timeout,
			Concurrency:    cfg.Geocoding.FetchConcurrency,
			TracerProvider: tp,
		}),
	)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	router := api.NewRouter(svc, metrics, logger, api.RouterOptions{
		AllowedOrigins:     cfg.Server.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
	})

	// A cold refresh waits on up to one upstream timeout, so the write
	// timeout leaves room for it.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Geocoding.Timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Strs("cities", registry.Keys()).
			Dur("cache_ttl", cfg.Cache.TTL).
			Bool("tracing", cfg.Tracing.Enabled).
			Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("run: shutdown: %w", err)
	}
	return nil
}
