package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/viant/mycoach/logger"
	"github.com/viant/mycoach/schema"
	"go.uber.org/zap"
)

const defaultUserAgent = "mycoach-go/1.0"

// Client represents MyCoach REST client
type Client struct {
	baseURL string
	rest    *resty.Client
	logger  *zap.Logger
}

// BaseURL returns backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func call[R any](ctx context.Context, c *Client, method, path string, body interface{}, unauthorized error) (*R, error) {
	result := new(R)
	request := c.rest.R().SetContext(ctx).SetResult(result)
	if body != nil {
		request.SetBody(body)
	}
	resp, err := request.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, schema.NewNetworkError(err)
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		rErr := responseError(resp.StatusCode(), resp.Body(), unauthorized)
		c.logger.Debug("request rejected", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode()))
		return nil, rErr
	}
	return result, nil
}

func get[R any](ctx context.Context, c *Client, path string) (*R, error) {
	return call[R](ctx, c, http.MethodGet, path, nil, nil)
}

func post[R any](ctx context.Context, c *Client, path string, body interface{}) (*R, error) {
	return call[R](ctx, c, http.MethodPost, path, body, nil)
}

// New creates a client for baseURL, e.g. http://localhost:8000/api
func New(baseURL string, options ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	rest := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent)
	rest.JSONMarshal = json.Marshal
	rest.JSONUnmarshal = json.Unmarshal
	ret := &Client{baseURL: baseURL, rest: rest}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = logger.OrNop(ret.logger)
	return ret
}
