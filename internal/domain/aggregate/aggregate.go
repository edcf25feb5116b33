// Package aggregate enriches candidate destinations concurrently and merges
// them into an order-preserving batch.
//
// Every candidate yields exactly one result in its input position. A failing
// or panicking enrichment call degrades only the fields of its own candidate.
package aggregate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// WeatherFetcher returns current conditions for a coordinate. Implementations
// report failures through the outcome, never through a panic or error.
type WeatherFetcher interface {
	Weather(ctx context.Context, coords model.Coordinates) model.WeatherOutcome
}

// ActivitiesFetcher returns nearby activities for a coordinate.
type ActivitiesFetcher interface {
	Activities(ctx context.Context, coords model.Coordinates) model.ActivitiesOutcome
}

// Pipeline runs the per-destination enrichment fan-out.
type Pipeline struct {
	weather     WeatherFetcher
	activities  ActivitiesFetcher
	maxInFlight int
	log         logger.Logger
}

// New creates a Pipeline over the two enrichment clients.
func New(weather WeatherFetcher, activities ActivitiesFetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		weather:    weather,
		activities: activities,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Aggregate enriches every candidate and returns once all of them resolved.
// Results are indexed by input position, never by completion order. An empty
// input yields an empty batch. Aggregate does not fail: cancellation of ctx
// surfaces as degraded fields.
func (p *Pipeline) Aggregate(ctx context.Context, candidates []model.Destination) model.ResultBatch {
	results := make([]model.EnrichedResult, len(candidates))
	if len(candidates) == 0 {
		return model.ResultBatch{Results: results}
	}

	start := time.Now()

	// Plain group: one candidate never cancels its siblings.
	var g errgroup.Group
	if p.maxInFlight > 0 {
		g.SetLimit(p.maxInFlight)
	}
	for i, d := range candidates {
		g.Go(func() error {
			results[i] = p.enrich(ctx, d)
			return nil
		})
	}
	_ = g.Wait()

	degraded := 0
	for _, r := range results {
		if r.Degraded() {
			degraded++
		}
	}
	p.log.Debug(ctx, "batch aggregated",
		logger.Int("candidates", len(candidates)),
		logger.Int("degraded", degraded),
		logger.Duration("elapsed", time.Since(start)),
	)
	return model.ResultBatch{Results: results}
}

// enrich runs the weather and activities calls for one destination in
// parallel and joins them into a single result.
func (p *Pipeline) enrich(ctx context.Context, d model.Destination) (res model.EnrichedResult) {
	defer func() {
		if r := recover(); r != nil {
			p.recovered(ctx, d, "candidate", r)
			res = fallback(d)
		}
	}()

	var (
		wg         sync.WaitGroup
		panicked   atomic.Bool
		weather    model.WeatherOutcome
		activities model.ActivitiesOutcome
	)
	wg.Go(func() {
		defer p.guard(ctx, d, "weather", &panicked)
		weather = p.weather.Weather(ctx, d.Coordinates)
	})
	wg.Go(func() {
		defer p.guard(ctx, d, "activities", &panicked)
		activities = p.activities.Activities(ctx, d.Coordinates)
	})
	wg.Wait()

	if panicked.Load() {
		return fallback(d)
	}
	return assemble(d, weather, activities)
}

// guard is deferred inside each enrichment goroutine; a panic there must not
// escape the goroutine, so it is recovered and flagged for the candidate.
func (p *Pipeline) guard(ctx context.Context, d model.Destination, call string, panicked *atomic.Bool) {
	if r := recover(); r != nil {
		panicked.Store(true)
		p.recovered(ctx, d, call, r)
	}
}

func (p *Pipeline) recovered(ctx context.Context, d model.Destination, call string, r any) {
	metrics.RecordPanicRecovered()
	metrics.RecordErrorByComponent("aggregate", "panic")
	p.log.Error(ctx, "enrichment panicked",
		logger.String("destination", d.Title()),
		logger.String("call", call),
		logger.String("panic", fmt.Sprint(r)),
	)
}

// assemble joins the two outcomes. A weather outcome without a summary is
// replaced by the sentinel, whatever outcome it claims.
func assemble(d model.Destination, w model.WeatherOutcome, a model.ActivitiesOutcome) model.EnrichedResult {
	switch {
	case w.Summary == (model.WeatherSummary{}):
		w = model.DegradedWeather(model.ReasonEmpty)
	case w.Outcome == "":
		w.Outcome = model.OutcomeLive
	}
	if a.Outcome == "" {
		a.Outcome = model.OutcomeLive
	}
	items := a.Items
	if items == nil {
		items = []model.ActivityEntry{}
	}
	if w.Outcome == model.OutcomeDegraded {
		metrics.RecordDegradedResult("weather")
	}
	if a.Outcome == model.OutcomeDegraded {
		metrics.RecordDegradedResult("activities")
	}
	return model.EnrichedResult{
		Destination:       d,
		Weather:           w.Summary,
		Activities:        items,
		WeatherOutcome:    w.Outcome,
		ActivitiesOutcome: a.Outcome,
	}
}

// fallback is the fully degraded result for a candidate whose enrichment panicked.
func fallback(d model.Destination) model.EnrichedResult {
	return assemble(d, model.DegradedWeather(model.ReasonPanic), model.DegradedActivities(model.ReasonPanic))
}
