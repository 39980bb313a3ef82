package session

import (
	"net/http"
	"time"

	"github.com/viant/mycoach/client/auth/store"
	"go.uber.org/zap"
)

// Option represents manager option
type Option func(m *Manager)

// WithStore sets credential store
func WithStore(store store.Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTransport sets the underlying transport used for all backend calls
func WithTransport(transport http.RoundTripper) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithTimeout sets per request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// WithProfileTimeout sets timeout of the background profile fetch following login
func WithProfileTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.profileTimeout = timeout
	}
}
