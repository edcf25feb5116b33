package places

import (
	"net/http"
	"time"

	"github.com/okian/tripfinder/internal/adapters/provider"
	"github.com/okian/tripfinder/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each provider call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.api = provider.NewClient(c.api.BaseURL(), d)
		}
	}
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.api = provider.NewClientWithHTTP(c.api.BaseURL(), hc)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
