package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"weather-coordinates-service/internal/adapters/geocoding"
	"weather-coordinates-service/internal/domain"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
// Values come from defaults, an optional YAML file and environment variables,
// in increasing order of precedence.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Cities    []CityConfig    `mapstructure:"cities"`
}

type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second"` // 0 disables
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
}

type GeocodingConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`           // per city lookup
	FetchConcurrency int           `mapstructure:"fetch_concurrency"` // parallel lookups per refresh
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// TracingConfig switches span export to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type CityConfig struct {
	Key  string `mapstructure:"key"`
	Name string `mapstructure:"name"`
}

// DefaultCities is the city set served when none is configured.
var DefaultCities = []CityConfig{
	{Key: "tel-aviv", Name: "Tel Aviv"},
	{Key: "beer-sheva", Name: "Beersheba"},
	{Key: "jerusalem", Name: "Jerusalem"},
	{Key: "szeged", Name: "Szeged"},
}

var envBindings = map[string]string{
	"server.port":                  "PORT",
	"server.cors_allowed_origins":  "CORS_ALLOWED_ORIGINS",
	"server.rate_limit_per_second": "RATE_LIMIT_PER_SECOND",
	"server.rate_limit_burst":      "RATE_LIMIT_BURST",
	"geocoding.base_url":           "GEOCODING_URL",
	"geocoding.timeout":            "GEOCODING_TIMEOUT",
	"geocoding.fetch_concurrency":  "FETCH_CONCURRENCY",
	"cache.ttl":                    "CACHE_TTL",
	"log.level":                    "LOG_LEVEL",
	"log.format":                   "LOG_FORMAT",
	"tracing.enabled":              "TRACING_ENABLED",
	"tracing.sample_ratio":         "TRACING_SAMPLE_RATIO",
	"cities":                       "CITIES",
}

// Load reads configuration. configPath may be empty, in which case only
// defaults and the environment are used.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("load config: bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", configPath, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		citiesHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	if len(cfg.Cities) == 0 {
		cfg.Cities = append([]CityConfig(nil), DefaultCities...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_second", 0)
	v.SetDefault("server.rate_limit_burst", 20)

	v.SetDefault("geocoding.base_url", geocoding.DefaultBaseURL)
	v.SetDefault("geocoding.timeout", "30s")
	v.SetDefault("geocoding.fetch_concurrency", 4)

	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

var cityListType = reflect.TypeOf([]CityConfig(nil))

// citiesHook lets the cities list come from a "key=Name,..." string, as the
// CITIES variable provides it. Lists from a config file pass through.
func citiesHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != cityListType {
		return data, nil
	}
	str, _ := data.(string)
	raw := strings.TrimSpace(str)
	if raw == "" {
		return []CityConfig(nil), nil
	}
	cities, err := ParseCities(raw)
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	return cities, nil
}

// ParseCities parses "key=Name,key2=Name 2".
func ParseCities(raw string) ([]CityConfig, error) {
	var out []CityConfig
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, name, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("city entry %q: want key=Name", part)
		}
		out = append(out, CityConfig{Key: strings.TrimSpace(key), Name: strings.TrimSpace(name)})
	}
	if len(out) == 0 {
		return nil, errors.New("no cities")
	}
	return out, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if strings.TrimSpace(c.Geocoding.BaseURL) == "" {
		return errors.New("geocoding.base_url is required")
	}
	if c.Geocoding.Timeout <= 0 {
		return fmt.Errorf("geocoding.timeout must be positive, got %s", c.Geocoding.Timeout)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0,1], got %g", c.Tracing.SampleRatio)
	}
	if c.Geocoding.FetchConcurrency < 0 {
		return fmt.Errorf("geocoding.fetch_concurrency must not be negative, got %d", c.Geocoding.FetchConcurrency)
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// Registry builds the city registry from the configured cities.
func (c *Config) Registry() (*domain.CityRegistry, error) {
	cities := make([]domain.City, 0, len(c.Cities))
	for _, cc := range c.Cities {
		cities = append(cities, domain.City{Key: cc.Key, Name: cc.Name})
	}
	return domain.NewCityRegistry(cities)
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
