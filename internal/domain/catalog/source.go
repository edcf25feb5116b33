package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// Finder yields the candidate destinations for a budget.
type Finder interface {
	FindCandidates(ctx context.Context, maxBudget int) ([]model.Destination, error)
}

// Source filters a fixed catalog by budget, optionally simulating a flight search delay.
type Source struct {
	entries    []model.Destination
	minLatency time.Duration
	maxLatency time.Duration
	log        logger.Logger
}

var _ Finder = (*Source)(nil)

// NewSource creates a Source over the reference catalog.
func NewSource(opts ...Option) *Source {
	s := &Source{
		entries: destinations,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindCandidates returns every destination whose price is <= maxBudget, in catalog order.
// An empty result is valid. A negative budget is rejected with ErrInvalidBudget.
func (s *Source) FindCandidates(ctx context.Context, maxBudget int) ([]model.Destination, error) {
	if maxBudget < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, maxBudget)
	}

	start := time.Now()
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	out := make([]model.Destination, 0, len(s.entries))
	for _, d := range s.entries {
		if d.Price <= maxBudget {
			out = append(out, d)
		}
	}

	metrics.RecordCatalogLookupLatency(float64(time.Since(start).Milliseconds()))
	s.log.Debug(ctx, "catalog lookup",
		logger.Int("budget", maxBudget),
		logger.Int("candidates", len(out)),
	)
	return out, nil
}

func (s *Source) simulateLatency(ctx context.Context) error {
	if s.maxLatency <= 0 {
		return nil
	}
	latency := s.minLatency
	if span := s.maxLatency - s.minLatency; span > 0 {
		latency += time.Duration(rand.Int64N(int64(span))) //nolint:gosec // cosmetic jitter
	}
	t := time.NewTimer(latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
