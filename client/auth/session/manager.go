package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/viant/mycoach/api"
	"github.com/viant/mycoach/client/auth/store"
	"github.com/viant/mycoach/client/auth/transport"
	"github.com/viant/mycoach/internal/collection"
	"github.com/viant/mycoach/logger"
	"github.com/viant/mycoach/schema"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultProfileTimeout = 30 * time.Second

// Listener is notified with the current user (nil when anonymous)
type Listener func(user *schema.UserProfile)

// Session is a point in time copy of the session state
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *schema.UserProfile
}

// Manager owns the session
type Manager struct {
	mu        sync.Mutex
	refreshMu sync.Mutex

	token *oauth2.Token
	user  *schema.UserProfile
	state State
	// generation changes on login and clear, so a late profile fetch cannot leak into another session
	generation uint64

	listeners    *collection.SyncMap[int, Listener]
	nextListener int

	store          store.Store
	transport      http.RoundTripper
	timeout        time.Duration
	profileTimeout time.Duration
	logger         *zap.Logger

	authAPI *api.Client
	api     *api.Client
	gateway *transport.RoundTripper
	pending sync.WaitGroup
}

// API returns client whose calls go through the request gateway
func (m *Manager) API() *api.Client {
	return m.api
}

// Gateway returns request gateway for custom http clients
func (m *Manager) Gateway() *transport.RoundTripper {
	return m.gateway
}

// Store returns credential store
func (m *Manager) Store() store.Store {
	return m.store
}

// Token returns current access token; the store is only read once, when the manager is created
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return ""
	}
	return m.token.AccessToken
}

// OAuthToken returns a copy of the current token or nil
func (m *Manager) OAuthToken() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil
	}
	ret := *m.token
	return &ret
}

// IsAuthenticated returns true if an access token is present
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// State returns session state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns current user or nil
func (m *Manager) CurrentUser() *schema.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Snapshot returns a copy of the session
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	ret := Session{User: m.user}
	if m.token != nil {
		ret.AccessToken = m.token.AccessToken
		ret.RefreshToken = m.token.RefreshToken
	}
	return ret
}

// Subscribe registers listener; it is invoked immediately with the current user, then on every change
func (m *Manager) Subscribe(listener Listener) (cancel func()) {
	m.mu.Lock()
	id := m.nextListener
	m.nextListener++
	current := m.user
	m.mu.Unlock()
	m.listeners.Put(id, listener)
	listener(current)
	return func() {
		m.listeners.Delete(id)
	}
}

func (m *Manager) notify(user *schema.UserProfile) {
	for _, listener := range m.listeners.Values() {
		listener(user)
	}
}

// Login exchanges credentials for tokens, persists them and fetches the profile in the background.
// A failed login leaves the session unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	previous := m.state
	m.state = Authenticating
	m.mu.Unlock()

	pair, err := m.authAPI.ObtainToken(ctx, email, password)
	m.mu.Lock()
	if err == nil {
		err = m.persist(map[string]string{store.AccessTokenKey: pair.Access, store.RefreshTokenKey: pair.Refresh})
	}
	if err != nil {
		m.state = previous
		m.mu.Unlock()
		m.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		return err
	}
	if err = m.store.Remove(store.UserProfileKey); err != nil {
		m.logger.Warn("failed to remove cached profile", zap.Error(err))
	}
	m.token = newToken(pair.Access, pair.Refresh)
	previousUser := m.user
	m.user = nil
	m.state = Authenticated
	m.generation++
	generation := m.generation
	m.mu.Unlock()
	if previousUser != nil {
		m.notify(nil)
	}
	m.logger.Info("logged in", zap.String("email", email), logger.Token("access", pair.Access))

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		fetchCtx, cancel := context.WithTimeout(context.Background(), m.profileTimeout)
		defer cancel()
		if _, err := m.loadProfile(fetchCtx, generation); err != nil {
			m.logger.Warn("failed to load profile", zap.Error(err))
		}
	}()
	return nil
}

// Wait waits for background profile fetches
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Register creates an account; it does not open a session
func (m *Manager) Register(ctx context.Context, request *schema.RegisterRequest) (*schema.RegisterResponse, error) {
	ret, err := m.authAPI.Register(ctx, request)
	if err != nil {
		return nil, err
	}
	m.logger.Info("registered", zap.String("email", request.Email))
	return ret, nil
}

// Refresh exchanges the stored refresh token for a new access token; any failure ends the session
func (m *Manager) Refresh(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()
	_, err := m.refresh(ctx)
	return err
}

// RefreshFrom returns an access token newer than stale. Concurrent callers holding the same stale
// token share a single refresh: the first one refreshes, the others get its result.
func (m *Manager) RefreshFrom(ctx context.Context, stale string) (string, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()
	current := m.Token()
	switch {
	case current == "":
		return "", fmt.Errorf("%w: session ended", schema.ErrAuthExpired)
	case current != stale:
		return current, nil
	}
	return m.refresh(ctx)
}

// refresh requires refreshMu. A result that arrives after the session was cleared or replaced is discarded.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	var refreshToken string
	if m.token != nil {
		refreshToken = m.token.RefreshToken
	}
	if refreshToken == "" {
		m.mu.Unlock()
		m.clear("missing refresh token")
		return "", fmt.Errorf("%w: %w", schema.ErrAuthExpired, schema.ErrNoRefreshToken)
	}
	m.state = Refreshing
	generation := m.generation
	m.mu.Unlock()

	resp, err := m.authAPI.RefreshToken(ctx, refreshToken)
	if err != nil {
		if m.isGeneration(generation) {
			m.clear("refresh failed")
		}
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if resp.Refresh != "" {
		refreshToken = resp.Refresh
	}
	m.mu.Lock()
	if m.generation != generation || m.token == nil {
		m.mu.Unlock()
		m.logger.Info("discarded refreshed token", zap.String("reason", "session changed during refresh"))
		return "", fmt.Errorf("%w: session changed during refresh", schema.ErrAuthExpired)
	}
	if err = m.persist(map[string]string{store.AccessTokenKey: resp.Access, store.RefreshTokenKey: refreshToken}); err != nil {
		m.logger.Warn("failed to persist refreshed token", zap.Error(err))
	}
	m.token = newToken(resp.Access, refreshToken)
	m.state = Authenticated
	m.mu.Unlock()
	m.logger.Info("token refreshed", logger.Token("access", resp.Access))
	return resp.Access, nil
}

// Logout clears the session and the store; it is idempotent
func (m *Manager) Logout() {
	m.clear("logout")
}

// Expire ends the session if its access token is still token
func (m *Manager) Expire(token string) {
	m.mu.Lock()
	current := m.token
	m.mu.Unlock()
	if current != nil && current.AccessToken != token {
		return
	}
	m.clear("access token rejected")
}

func (m *Manager) clear(reason string) {
	m.mu.Lock()
	previousUser := m.user
	hadToken := m.token != nil
	m.token = nil
	m.user = nil
	m.state = Anonymous
	m.generation++
	err := store.RemoveAll(m.store, store.SessionKeys...)
	m.mu.Unlock()
	if err != nil {
		m.logger.Warn("failed to clear credentials", zap.Error(err))
	}
	if hadToken {
		m.logger.Info("session cleared", zap.String("reason", reason))
	}
	if previousUser != nil {
		m.notify(nil)
	}
}

func (m *Manager) persist(entries map[string]string) error {
	for _, key := range []string{store.AccessTokenKey, store.RefreshTokenKey} {
		value, ok := entries[key]
		if !ok {
			continue
		}
		if err := m.store.Set(key, value); err != nil {
			return fmt.Errorf("failed to persist %v: %w", key, err)
		}
	}
	return nil
}

// restore loads a persisted session; it runs once, from New
func (m *Manager) restore() {
	access, ok := m.store.Get(store.AccessTokenKey)
	if !ok || access == "" {
		return
	}
	refresh, _ := m.store.Get(store.RefreshTokenKey)
	m.token = newToken(access, refresh)
	m.state = Authenticated
	if m.user != nil {
		return
	}
	if data, ok := m.store.Get(store.UserProfileKey); ok && data != "" {
		user := &schema.UserProfile{}
		if err := json.Unmarshal([]byte(data), user); err != nil {
			m.logger.Warn("failed to decode cached profile", zap.Error(err))
			return
		}
		m.user = user
	}
}

// New creates session manager for the backend at baseURL, restoring a persisted session if any
func New(baseURL string, options ...Option) *Manager {
	ret := &Manager{
		listeners:      collection.NewSyncMap[int, Listener](),
		transport:      http.DefaultTransport,
		profileTimeout: defaultProfileTimeout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store == nil {
		ret.store = store.NewMemoryStore()
	}
	ret.logger = logger.OrNop(ret.logger)
	ret.authAPI = api.New(baseURL, api.WithTransport(ret.transport), api.WithTimeout(ret.timeout), api.WithLogger(ret.logger))
	ret.gateway = transport.New(ret, transport.WithTransport(ret.transport), transport.WithLogger(ret.logger))
	ret.api = api.New(baseURL, api.WithTransport(ret.gateway), api.WithTimeout(ret.timeout), api.WithLogger(ret.logger))
	ret.restore()
	return ret
}
