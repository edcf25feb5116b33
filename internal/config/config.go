// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Placeholder credentials shipped in sample configuration. Clients treat them as absent.
const (
	PlaceholderOpenWeatherKey = "YOUR_OPENWEATHERMAP_API_KEY"
	PlaceholderFoursquareKey  = "YOUR_FOURSQUARE_API_KEY"
	PlaceholderMapboxToken    = "YOUR_MAPBOX_ACCESS_TOKEN"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// OpenWeatherAPIKey authenticates current-weather lookups.
	OpenWeatherAPIKey string `koanf:"openweather_api_key"`

	// OpenWeatherBaseURL is the weather provider root, without path.
	OpenWeatherBaseURL string `koanf:"openweather_base_url"`

	// FoursquareAPIKey is sent verbatim in the Authorization header.
	FoursquareAPIKey string `koanf:"foursquare_api_key"`

	// FoursquareBaseURL is the places provider root, without path.
	FoursquareBaseURL string `koanf:"foursquare_base_url"`

	// MapboxToken is handed to the browser for map tiles.
	MapboxToken string `koanf:"mapbox_token"`

	// ProviderTimeoutMS bounds each provider HTTP call. Zero disables the bound.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// MaxInFlight caps concurrently enriched candidates per search. Zero means unlimited.
	MaxInFlight int `koanf:"max_in_flight"`

	// CatalogLatencyMinMS and CatalogLatencyMaxMS simulate a flight search delay.
	CatalogLatencyMinMS int `koanf:"catalog_latency_min_ms"`
	CatalogLatencyMaxMS int `koanf:"catalog_latency_max_ms"`

	// SearchRatePerMinute and SearchRateBurst bound /search per client address.
	SearchRatePerMinute int `koanf:"search_rate_per_minute"`
	SearchRateBurst     int `koanf:"search_rate_burst"`

	// AllowedOrigins lists CORS origins for the API. A single "*" allows all.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		OpenWeatherAPIKey:   PlaceholderOpenWeatherKey,
		OpenWeatherBaseURL:  "https://api.openweathermap.org",
		FoursquareAPIKey:    PlaceholderFoursquareKey,
		FoursquareBaseURL:   "https://api.foursquare.com",
		MapboxToken:         PlaceholderMapboxToken,
		ProviderTimeoutMS:   10_000,
		MaxInFlight:         0,
		CatalogLatencyMinMS: 0,
		CatalogLatencyMaxMS: 0,
		SearchRatePerMinute: 30,
		SearchRateBurst:     5,
		AllowedOrigins:      []string{"*"},
	}
}

// ProviderTimeout returns ProviderTimeoutMS as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}

// CatalogLatency returns the simulated catalog latency bounds.
func (c *Config) CatalogLatency() (time.Duration, time.Duration) {
	return time.Duration(c.CatalogLatencyMinMS) * time.Millisecond,
		time.Duration(c.CatalogLatencyMaxMS) * time.Millisecond
}
