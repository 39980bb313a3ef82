package mycoach_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mycoach"
	"github.com/viant/mycoach/client/auth/mock"
	"github.com/viant/mycoach/client/auth/store"
	"github.com/viant/mycoach/config"
	"go.uber.org/zap"
)

func TestNewClient_Restart(t *testing.T) {
	backend := mock.New(mock.WithUser("jane@example.com", "secret123", "Jane", "Doe"))
	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	var testCases = []struct {
		description string
		store       config.Store
	}{
		{description: "file store", store: config.Store{Kind: config.StoreFile, URL: filepath.Join(t.TempDir(), "credentials.json")}},
		{description: "secret store", store: config.Store{Kind: config.StoreSecret, URL: filepath.Join(t.TempDir(), "credentials.enc"), Secret: "blowfish://default"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := &config.Config{Endpoint: server.URL + mock.DefaultPrefix, Timeout: 5 * time.Second, Store: testCase.store}
			ctx := context.Background()

			client, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg, Logger: zap.NewNop()})
			require.NoError(t, err, testCase.description)
			require.NoError(t, client.Session().Login(ctx, "jane@example.com", "secret123"), testCase.description)
			token := client.Session().Token()
			require.NoError(t, client.Close(), testCase.description)

			restarted, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg, Logger: zap.NewNop()})
			require.NoError(t, err, testCase.description)
			defer restarted.Close()
			assert.Equal(t, token, restarted.Session().Token(), testCase.description)
			user := restarted.Session().CurrentUser()
			require.NotNil(t, user, testCase.description)
			assert.Equal(t, "jane@example.com", user.Email, testCase.description)

			machines, err := restarted.API().Machines(ctx)
			require.NoError(t, err, testCase.description)
			assert.NotEmpty(t, machines, testCase.description)

			restarted.Session().Logout()
			again, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg, Logger: zap.NewNop()})
			require.NoError(t, err, testCase.description)
			assert.Empty(t, again.Session().Token(), testCase.description)
		})
	}
}

func TestNewClient_DefaultConfig(t *testing.T) {
	backend := mock.New(mock.WithUser("jane@example.com", "secret123", "Jane", "Doe"))
	server := httptest.NewServer(backend.Handler())
	defer server.Close()
	location := filepath.Join(t.TempDir(), "credentials")
	t.Setenv("MYCOACH_ENDPOINT", server.URL+mock.DefaultPrefix)
	t.Setenv("MYCOACH_STORE_URL", location)

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.StoreSecret, cfg.Store.Kind)
	ctx := context.Background()
	client, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, client.Session().Login(ctx, "jane@example.com", "secret123"))
	client.Session().Wait()
	token := client.Session().Token()
	require.NotEmpty(t, token)
	require.NoError(t, client.Close())

	restarted, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer restarted.Close()
	assert.Equal(t, token, restarted.Session().Token())
}

func TestNewClient_InjectedStore(t *testing.T) {
	aStore := store.NewMemoryStore(store.WithEntry(store.AccessTokenKey, "token"))
	client, err := mycoach.NewClient(context.Background(), &mycoach.Options{
		Config: &config.Config{Endpoint: "http://localhost:8000/api", Store: config.Store{Kind: config.StoreRedis}},
		Store:  aStore,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	assert.Equal(t, "token", client.Session().Token())
	assert.Equal(t, "http://localhost:8000/api", client.API().BaseURL())
	assert.NoError(t, client.Close())
}

func TestNewStore(t *testing.T) {
	var testCases = []struct {
		description string
		config      config.Store
		expectErr   bool
	}{
		{description: "memory", config: config.Store{Kind: config.StoreMemory}},
		{description: "default", config: config.Store{}},
		{description: "file", config: config.Store{Kind: config.StoreFile, URL: filepath.Join(t.TempDir(), "credentials.json")}},
		{description: "unreachable redis", config: config.Store{Kind: config.StoreRedis, Redis: config.Redis{Addr: "127.0.0.1:1"}}, expectErr: true},
		{description: "unknown", config: config.Store{Kind: "sqlite"}, expectErr: true},
	}
	for _, testCase := range testCases {
		aStore, closer, err := mycoach.NewStore(context.Background(), &testCase.config)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		require.NoError(t, aStore.Set(store.AccessTokenKey, "value"), testCase.description)
		value, ok := aStore.Get(store.AccessTokenKey)
		assert.True(t, ok, testCase.description)
		assert.Equal(t, "value", value, testCase.description)
		if closer != nil {
			assert.NoError(t, closer(), testCase.description)
		}
	}
}
