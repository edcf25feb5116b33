package service

import (
	"time"

	"github.com/okian/tripfinder/internal/domain/aggregate"
	"github.com/okian/tripfinder/internal/domain/catalog"
	"github.com/okian/tripfinder/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWeatherProvider sets the weather credential and base URL.
func WithWeatherProvider(apiKey, baseURL string) Option {
	return func(s *Service) {
		s.weatherKey = apiKey
		if baseURL != "" {
			s.weatherURL = baseURL
		}
	}
}

// WithPlacesProvider sets the activities credential and base URL.
func WithPlacesProvider(apiKey, baseURL string) Option {
	return func(s *Service) {
		s.placesKey = apiKey
		if baseURL != "" {
			s.placesURL = baseURL
		}
	}
}

// WithMapboxToken sets the map credential handed to the browser.
func WithMapboxToken(token string) Option {
	return func(s *Service) {
		s.mapboxToken = token
	}
}

// WithProviderTimeout bounds each provider HTTP call.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

// WithMaxInFlight caps concurrently enriched candidates per search.
func WithMaxInFlight(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInFlight = n
		}
	}
}

// WithCatalogLatencyRange sets the simulated flight search latency.
func WithCatalogLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Service) {
		if minLatency >= 0 && maxLatency >= minLatency {
			s.catalogMinLatency = minLatency
			s.catalogMaxLatency = maxLatency
		}
	}
}

// WithFinder replaces the destination source.
func WithFinder(f catalog.Finder) Option {
	return func(s *Service) {
		if f != nil {
			s.finder = f
		}
	}
}

// WithEnrichers replaces the weather and activities clients.
func WithEnrichers(w aggregate.WeatherFetcher, a aggregate.ActivitiesFetcher) Option {
	return func(s *Service) {
		if w != nil && a != nil {
			s.weather = w
			s.activities = a
		}
	}
}
