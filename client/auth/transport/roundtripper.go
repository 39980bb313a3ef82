package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/viant/mycoach/logger"
	"go.uber.org/zap"
)

// DefaultRequestIDHeader is attached to every request unless the caller supplied one
const DefaultRequestIDHeader = "X-Request-Id"

// Credentials is implemented by the session owner
type Credentials interface {
	// Token returns current access token or empty string
	Token() string
	// RefreshFrom returns an access token newer than stale, refreshing it if needed
	RefreshFrom(ctx context.Context, stale string) (string, error)
	// Expire ends the session if its access token is still token
	Expire(token string)
}

// RoundTripper attaches the bearer token and replays a request once after a 401 triggered refresh
type RoundTripper struct {
	credentials     Credentials
	transport       http.RoundTripper
	logger          *zap.Logger
	requestIDHeader string
}

// New creates a request gateway backed by credentials
func New(credentials Credentials, options ...Option) *RoundTripper {
	ret := &RoundTripper{
		credentials:     credentials,
		transport:       http.DefaultTransport,
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = logger.OrNop(ret.logger)
	return ret
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token := r.credentials.Token()
	if token == "" {
		anonymous := clone(req, nil)
		r.setRequestID(anonymous)
		return r.transport.RoundTrip(anonymous)
	}
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}
	requestID := r.newRequestID(req)

	resp, err := r.transport.RoundTrip(r.authorize(clone(req, body), token, requestID))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	ctx := req.Context()
	fields := []zap.Field{zap.String("method", req.Method), zap.String("url", req.URL.Path), zap.String("requestID", requestID)}
	r.logger.Info("access token rejected, refreshing", append(fields, logger.Token("token", token))...)
	fresh, err := r.credentials.RefreshFrom(ctx, token)
	if err != nil {
		// session was cleared by the failed refresh; caller gets the original 401
		r.logger.Warn("token refresh failed", append(fields, zap.Error(err))...)
		return resp, nil
	}
	discard(resp)

	retry, err := r.transport.RoundTrip(r.authorize(clone(req, body), fresh, requestID))
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		r.logger.Warn("refreshed token rejected, ending session", fields...)
		r.credentials.Expire(fresh)
	}
	return retry, nil
}

func (r *RoundTripper) authorize(req *http.Request, token, requestID string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		req.Header.Set(r.requestIDHeader, requestID)
	}
	return req
}

func (r *RoundTripper) newRequestID(req *http.Request) string {
	if r.requestIDHeader == "" {
		return ""
	}
	if id := req.Header.Get(r.requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

func (r *RoundTripper) setRequestID(req *http.Request) {
	if id := r.newRequestID(req); id != "" {
		req.Header.Set(r.requestIDHeader, id)
	}
}
