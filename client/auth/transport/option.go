package transport

import (
	"net/http"

	"go.uber.org/zap"
)

type Option func(*RoundTripper)

// WithTransport sets underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}

// WithRequestIDHeader sets request id header name, empty name disables request ids
func WithRequestIDHeader(name string) Option {
	return func(t *RoundTripper) {
		t.requestIDHeader = name
	}
}
