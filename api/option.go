package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option represents client option
type Option func(c *Client)

// WithTransport sets http transport, typically the authenticating round tripper
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.rest.SetTransport(transport)
	}
}

// WithTimeout sets request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.rest.SetTimeout(timeout)
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets user agent header
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.rest.SetHeader("User-Agent", agent)
	}
}
