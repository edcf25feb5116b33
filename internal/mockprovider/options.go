package mockprovider

import (
	"math/rand/v2"
	"time"

	"github.com/okian/tripfinder/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithLatencyRange delays every response by a random duration in [minLatency, maxLatency].
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Server) {
		if minLatency >= 0 && maxLatency >= minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithFailureRate makes roughly this fraction of requests answer 503.
func WithFailureRate(rate float64) Option {
	return func(s *Server) {
		if rate >= 0 && rate <= 1 {
			s.failureRate = rate
		}
	}
}

// WithSeed makes latency and failure injection reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Server) {
		s.rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // not crypto
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
