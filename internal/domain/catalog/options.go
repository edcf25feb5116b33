package catalog

import (
	"time"

	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithLatencyRange sets the simulated search latency. A zero max disables it.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Source) {
		if minLatency >= 0 && maxLatency >= minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithEntries replaces the reference catalog. The slice is copied.
func WithEntries(entries []model.Destination) Option {
	return func(s *Source) {
		if entries != nil {
			s.entries = append([]model.Destination(nil), entries...)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}
