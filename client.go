package mycoach

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/viant/mycoach/api"
	"github.com/viant/mycoach/client/auth/session"
	"github.com/viant/mycoach/client/auth/store"
	"github.com/viant/mycoach/config"
	"github.com/viant/mycoach/logger"
	"go.uber.org/zap"
)

// Options defines options for configuring a client
type Options struct {
	Config *config.Config `yaml:"config,omitempty" json:"config,omitempty"`

	// Store allows injecting a credential store, it takes precedence over Config.Store
	Store store.Store `yaml:"-" json:"-"`
	// Logger overrides the logger built from Config.Log
	Logger *zap.Logger `yaml:"-" json:"-"`
	// Transport overrides the underlying http transport
	Transport http.RoundTripper `yaml:"-" json:"-"`
}

// Client represents MyCoach client: the session and the authenticated api sharing it
type Client struct {
	session *session.Manager
	logger  *zap.Logger
	closers []func() error
}

// Session returns session manager
func (c *Client) Session() *session.Manager {
	return c.session
}

// API returns authenticated api client
func (c *Client) API() *api.Client {
	return c.session.API()
}

// Logger returns client logger
func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// Close waits for pending profile fetch and releases store connections
func (c *Client) Close() error {
	c.session.Wait()
	var errs []error
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewClient creates a client with the credential store, session and request gateway configured via Options
func NewClient(ctx context.Context, options *Options) (*Client, error) {
	if options == nil {
		options = &Options{}
	}
	cfg := options.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}
	ret := &Client{logger: options.Logger}
	if ret.logger == nil {
		var err error
		if ret.logger, err = logger.New(&cfg.Log); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	credentials := options.Store
	if credentials == nil {
		var closer func() error
		var err error
		if credentials, closer, err = NewStore(ctx, &cfg.Store); err != nil {
			return nil, err
		}
		if closer != nil {
			ret.closers = append(ret.closers, closer)
		}
	}
	sessionOptions := []session.Option{
		session.WithStore(credentials),
		session.WithLogger(ret.logger),
		session.WithTimeout(cfg.Timeout),
	}
	if options.Transport != nil {
		sessionOptions = append(sessionOptions, session.WithTransport(options.Transport))
	}
	ret.session = session.New(cfg.Endpoint, sessionOptions...)
	return ret, nil
}

// NewStore creates credential store for config; closer is set when the store holds a connection
func NewStore(ctx context.Context, cfg *config.Store) (store.Store, func() error, error) {
	switch cfg.Kind {
	case "", config.StoreMemory:
		return store.NewMemoryStore(), nil, nil
	case config.StoreFile:
		ret, err := store.NewFileStore(cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open credential file %v: %w", cfg.URL, err)
		}
		return ret, nil, nil
	case config.StoreSecret:
		ret, err := store.NewSecretStore(cfg.URL, cfg.Secret)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open encrypted credential file %v: %w", cfg.URL, err)
		}
		return ret, nil, nil
	case config.StoreRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ret := store.NewRedisStore(client, cfg.Redis.Prefix)
		if err := ret.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis %v: %w", cfg.Redis.Addr, err)
		}
		return ret, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store kind: %v", cfg.Kind)
}
