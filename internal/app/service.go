// Package service provides the search controller that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tripfinder/internal/adapters/places"
	"github.com/okian/tripfinder/internal/adapters/render"
	"github.com/okian/tripfinder/internal/adapters/weather"
	"github.com/okian/tripfinder/internal/config"
	"github.com/okian/tripfinder/internal/domain/aggregate"
	"github.com/okian/tripfinder/internal/domain/catalog"
	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// Search outcomes, also used as metric labels.
const (
	OutcomeResults    = "results"
	OutcomeEmpty      = "empty"
	OutcomeInvalid    = "invalid_budget"
	OutcomeSuperseded = "superseded"
	OutcomeCanceled   = "canceled"
	OutcomeFailed     = "failed"
)

// SearchResult describes one completed search.
type SearchResult struct {
	SearchID   string            `json:"search_id"`
	Generation uint64            `json:"generation"`
	Budget     int               `json:"budget"`
	Outcome    string            `json:"outcome"`
	Batch      model.ResultBatch `json:"-"`
	Elapsed    time.Duration     `json:"-"`
}

// PublicConfig is the client-facing configuration.
type PublicConfig struct {
	MapboxToken      string     `json:"mapbox_token"`
	MapConfigured    bool       `json:"map_configured"`
	DefaultCenter    [2]float64 `json:"default_center"`
	DefaultZoom      float64    `json:"default_zoom"`
	WeatherLive      bool       `json:"weather_configured"`
	ActivitiesLive   bool       `json:"activities_configured"`
	ProviderTimeoutS float64    `json:"provider_timeout_seconds"`
}

// Service runs budget searches and publishes their batches to the views.
type Service struct {
	mu sync.RWMutex

	// Core components
	finder     catalog.Finder
	weather    aggregate.WeatherFetcher
	activities aggregate.ActivitiesFetcher
	pipeline   *aggregate.Pipeline
	list       *render.ListView
	mapView    *render.MapView
	sinks      render.Multi

	// Configuration
	weatherKey        string
	weatherURL        string
	placesKey         string
	placesURL         string
	mapboxToken       string
	providerTimeout   time.Duration
	maxInFlight       int
	catalogMinLatency time.Duration
	catalogMaxLatency time.Duration

	// Supersession
	generation atomic.Uint64
	publishMu  sync.Mutex
	inflightMu sync.Mutex
	cancelGen  uint64
	cancelPrev context.CancelFunc

	// Counters
	searches   atomic.Uint64
	superseded atomic.Uint64
	canceled   atomic.Uint64
	empties    atomic.Uint64
	failures   atomic.Uint64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weatherKey:      config.PlaceholderOpenWeatherKey,
		weatherURL:      "https://api.openweathermap.org",
		placesKey:       config.PlaceholderFoursquareKey,
		placesURL:       "https://api.foursquare.com",
		mapboxToken:     config.PlaceholderMapboxToken,
		providerTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting trip finder service...")

	if s.finder == nil {
		s.finder = catalog.NewSource(
			catalog.WithLatencyRange(s.catalogMinLatency, s.catalogMaxLatency),
			catalog.WithLogger(s.logger.Named("catalog")),
		)
	}
	if s.weather == nil || s.activities == nil {
		s.weather = weather.New(s.weatherKey, s.weatherURL,
			weather.WithTimeout(s.providerTimeout),
			weather.WithLogger(s.logger.Named("weather")),
		)
		s.activities = places.New(s.placesKey, s.placesURL,
			places.WithTimeout(s.providerTimeout),
			places.WithLogger(s.logger.Named("places")),
		)
	}
	s.pipeline = aggregate.New(s.weather, s.activities,
		aggregate.WithMaxInFlight(s.maxInFlight),
		aggregate.WithLogger(s.logger.Named("aggregate")),
	)
	s.list = render.NewListView(s.logger.Named("list"))
	s.mapView = render.NewMapView(render.WithMapLogger(s.logger.Named("map")))
	s.sinks = render.Multi{s.list, s.mapView}

	s.started = true
	s.logger.Info(ctx, "trip finder service started",
		logger.Int("maxInFlight", s.maxInFlight),
		logger.Duration("providerTimeout", s.providerTimeout),
		logger.Bool("weatherConfigured", s.weatherConfigured()),
		logger.Bool("activitiesConfigured", s.activitiesConfigured()),
	)

	return nil
}

// Stop cancels any in-flight search and marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping trip finder service...")

	s.inflightMu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
		s.cancelPrev = nil
	}
	s.inflightMu.Unlock()

	s.started = false
	s.logger.Info(context.Background(), "trip finder service stopped")
}

// Search finds every destination priced at or under budget, enriches it and
// renders the batch, unless a newer search has started in the meantime.
// Starting a search cancels the previous one. When ctx ends first, nothing
// is published and the error wraps ErrCanceled.
func (s *Service) Search(ctx context.Context, budget int) (res SearchResult, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return SearchResult{}, ErrNotStarted
	}

	start := time.Now()
	searchCtx, cancel := context.WithCancel(ctx)
	gen := s.track(cancel)
	defer s.untrack(gen, cancel)
	res = SearchResult{SearchID: uuid.NewString(), Generation: gen, Budget: budget}

	s.searches.Add(1)
	metrics.IncSearchesInFlight()
	defer func() {
		metrics.DecSearchesInFlight()
		res.Elapsed = time.Since(start)
		metrics.RecordSearch(res.Outcome)
		metrics.RecordSearchDuration(float64(res.Elapsed.Milliseconds()))
	}()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordPanicRecovered()
			s.logger.Error(ctx, "search panicked", logger.Any("panic", r), logger.Uint64("generation", gen))
			res.Outcome = OutcomeFailed
			err = s.fail(ctx, gen, fmt.Errorf("panic: %v", r))
		}
	}()

	s.logger.Info(ctx, "search started",
		logger.String("searchID", res.SearchID),
		logger.Uint64("generation", gen),
		logger.Int("budget", budget),
	)

	candidates, err := s.finder.FindCandidates(searchCtx, budget)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidBudget):
			res.Outcome = OutcomeInvalid
			return res, err
		case !s.latest(gen):
			res.Outcome = OutcomeSuperseded
			return res, s.discard(ctx, gen)
		case ctx.Err() != nil:
			res.Outcome = OutcomeCanceled
			return res, s.abandon(ctx, gen)
		default:
			res.Outcome = OutcomeFailed
			return res, s.fail(ctx, gen, err)
		}
	}
	metrics.RecordSearchCandidates(len(candidates))

	if len(candidates) == 0 {
		s.publishMu.Lock()
		defer s.publishMu.Unlock()
		if !s.latest(gen) {
			res.Outcome = OutcomeSuperseded
			return res, s.discard(ctx, gen)
		}
		s.list.ShowEmpty(gen, budget)
		s.mapView.Clear(gen)
		s.empties.Add(1)
		res.Outcome = OutcomeEmpty
		res.Batch = model.ResultBatch{Generation: gen, Results: []model.EnrichedResult{}}
		s.logger.Info(ctx, "no destinations within budget", logger.Int("budget", budget))
		return res, nil
	}

	batch := s.pipeline.Aggregate(searchCtx, candidates)
	batch.Generation = gen

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if !s.latest(gen) {
		res.Outcome = OutcomeSuperseded
		return res, s.discard(ctx, gen)
	}
	if ctx.Err() != nil {
		res.Outcome = OutcomeCanceled
		return res, s.abandon(ctx, gen)
	}
	if rerr := s.sinks.Render(ctx, batch); rerr != nil {
		metrics.RecordErrorByComponent("render", "sink_failed")
		s.logger.Warn(ctx, "render failed", logger.Error(rerr))
	}

	res.Outcome = OutcomeResults
	res.Batch = batch
	s.logger.Info(ctx, "search completed",
		logger.String("searchID", res.SearchID),
		logger.Uint64("generation", gen),
		logger.Int("results", batch.Len()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// ListView returns the itinerary view.
func (s *Service) ListView() *render.ListView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list
}

// MapView returns the map view.
func (s *Service) MapView() *render.MapView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapView
}

// PublicConfig returns what the browser needs to draw the map.
func (s *Service) PublicConfig() PublicConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PublicConfig{
		MapboxToken:      s.mapboxToken,
		MapConfigured:    s.mapboxToken != "" && s.mapboxToken != config.PlaceholderMapboxToken,
		DefaultCenter:    render.DefaultCenter,
		DefaultZoom:      render.DefaultZoom,
		WeatherLive:      s.weatherConfigured(),
		ActivitiesLive:   s.activitiesConfigured(),
		ProviderTimeoutS: s.providerTimeout.Seconds(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"generation":      s.generation.Load(),
		"searches":        s.searches.Load(),
		"superseded":      s.superseded.Load(),
		"canceled":        s.canceled.Load(),
		"empty":           s.empties.Load(),
		"failed":          s.failures.Load(),
		"maxInFlight":     s.maxInFlight,
		"providerTimeout": s.providerTimeout.String(),
	}

	if s.started {
		snap := s.list.Snapshot()
		stats["listState"] = string(snap.State)
		stats["listGeneration"] = snap.Generation
		stats["cards"] = len(snap.Cards)
		stats["markers"] = len(s.mapView.Snapshot().Data.Features)
	}

	return stats
}

// track assigns the next generation, cancels the previous search and
// remembers cancel for the new one. Both happen under inflightMu so the
// cancelled search is always older than the tracked one.
func (s *Service) track(cancel context.CancelFunc) uint64 {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	gen := s.generation.Add(1)
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	s.cancelGen = gen
	s.cancelPrev = cancel
	return gen
}

func (s *Service) untrack(gen uint64, cancel context.CancelFunc) {
	cancel()
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if s.cancelGen == gen {
		s.cancelPrev = nil
	}
}

func (s *Service) latest(gen uint64) bool {
	return s.generation.Load() == gen
}

func (s *Service) discard(ctx context.Context, gen uint64) error {
	s.superseded.Add(1)
	metrics.RecordSupersededBatch()
	s.logger.Debug(ctx, "discarding stale batch",
		logger.Uint64("generation", gen),
		logger.Uint64("latest", s.generation.Load()),
	)
	return fmt.Errorf("%w: generation %d", ErrSuperseded, gen)
}

// abandon drops a search whose caller went away. The views keep their
// previous state.
func (s *Service) abandon(ctx context.Context, gen uint64) error {
	s.canceled.Add(1)
	s.logger.Info(ctx, "search abandoned by caller", logger.Uint64("generation", gen), logger.Error(ctx.Err()))
	return fmt.Errorf("%w: generation %d: %w", ErrCanceled, gen, ctx.Err())
}

// fail renders the generic error state when gen is still current.
func (s *Service) fail(ctx context.Context, gen uint64, cause error) error {
	s.failures.Add(1)
	metrics.RecordErrorByComponent("search", "failed")
	s.logger.Error(ctx, "search failed", logger.Error(cause), logger.Uint64("generation", gen))
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if s.latest(gen) {
		s.list.ShowError(gen)
		s.mapView.Clear(gen)
	}
	return fmt.Errorf("%w: %w", ErrSearchFailed, cause)
}

func (s *Service) weatherConfigured() bool {
	return s.weatherKey != "" && s.weatherKey != config.PlaceholderOpenWeatherKey
}

func (s *Service) activitiesConfigured() bool {
	return s.placesKey != "" && s.placesKey != config.PlaceholderFoursquareKey
}
