package aggregate

import "github.com/okian/tripfinder/pkg/logger"

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithMaxInFlight caps concurrently enriched candidates. Zero or less means unlimited.
func WithMaxInFlight(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxInFlight = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}
