package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mycoach/api"
	"github.com/viant/mycoach/client/auth/mock"
	"github.com/viant/mycoach/client/auth/session"
	"github.com/viant/mycoach/client/auth/store"
	"github.com/viant/mycoach/schema"
)

const (
	testEmail    = "jane@example.com"
	testPassword = "secret123"
)

func newBackend(t *testing.T, options ...mock.Option) (*mock.Backend, string) {
	t.Helper()
	backend := mock.New(append([]mock.Option{mock.WithUser(testEmail, testPassword, "Jane", "Doe")}, options...)...)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	return backend, server.URL + mock.DefaultPrefix
}

func login(t *testing.T, manager *session.Manager) string {
	t.Helper()
	require.NoError(t, manager.Login(context.Background(), testEmail, testPassword))
	manager.Wait()
	token := manager.Token()
	require.NotEmpty(t, token)
	return token
}

func TestManager_Login(t *testing.T) {
	var testCases = []struct {
		description   string
		password      string
		preLogin      bool
		expectErr     error
		expectSession bool
	}{
		{description: "valid credentials", password: testPassword, expectSession: true},
		{description: "invalid credentials", password: "wrong", expectErr: schema.ErrInvalidCredentials},
		{description: "invalid credentials keep existing session", password: "wrong", preLogin: true, expectErr: schema.ErrInvalidCredentials, expectSession: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, baseURL := newBackend(t)
			aStore := store.NewMemoryStore()
			manager := session.New(baseURL, session.WithStore(aStore))
			var before session.Session
			if testCase.preLogin {
				login(t, manager)
				before = manager.Snapshot()
			}

			err := manager.Login(context.Background(), testEmail, testCase.password)
			manager.Wait()
			if testCase.expectErr != nil {
				require.Error(t, err, testCase.description)
				assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
				assert.EqualValues(t, before, manager.Snapshot(), testCase.description)
			} else {
				require.NoError(t, err, testCase.description)
			}
			if !testCase.expectSession {
				assert.Empty(t, manager.Token(), testCase.description)
				assert.Nil(t, manager.CurrentUser(), testCase.description)
				assert.Equal(t, session.Anonymous, manager.State(), testCase.description)
				_, ok := aStore.Get(store.AccessTokenKey)
				assert.False(t, ok, testCase.description)
				return
			}
			assert.Equal(t, session.Authenticated, manager.State(), testCase.description)
			access, _ := aStore.Get(store.AccessTokenKey)
			refresh, _ := aStore.Get(store.RefreshTokenKey)
			assert.Equal(t, manager.Token(), access, testCase.description)
			assert.NotEmpty(t, refresh, testCase.description)
			user := manager.CurrentUser()
			require.NotNil(t, user, testCase.description)
			assert.Equal(t, testEmail, user.Email, testCase.description)
			assert.Equal(t, "Jane Doe", user.FullName(), testCase.description)
		})
	}
}

func TestManager_Logout(t *testing.T) {
	_, baseURL := newBackend(t)
	aStore := store.NewMemoryStore()
	manager := session.New(baseURL, session.WithStore(aStore))
	login(t, manager)

	var mu sync.Mutex
	var received []*schema.UserProfile
	cancel := manager.Subscribe(func(user *schema.UserProfile) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, user)
	})
	defer cancel()

	manager.Logout()
	manager.Logout()

	assert.Empty(t, manager.Token())
	assert.False(t, manager.IsAuthenticated())
	assert.Nil(t, manager.CurrentUser())
	for _, key := range store.SessionKeys {
		_, ok := aStore.Get(key)
		assert.False(t, ok, key)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.NotNil(t, received[0])
	assert.Nil(t, received[1])
}

func TestManager_WarmStart(t *testing.T) {
	backend, baseURL := newBackend(t)
	aStore := store.NewMemoryStore()
	token := login(t, session.New(baseURL, session.WithStore(aStore)))

	restarted := session.New(baseURL, session.WithStore(aStore))
	assert.Equal(t, token, restarted.Token())
	assert.Equal(t, session.Authenticated, restarted.State())
	user := restarted.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, testEmail, user.Email)
	assert.False(t, restarted.OAuthToken().Expiry.IsZero())

	machines, err := restarted.API().Machines(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, machines)
	assert.Equal(t, 1, backend.Calls(api.PathToken))
}

func TestManager_RefreshAndReplay(t *testing.T) {
	var testCases = []struct {
		description    string
		forced         int
		rejectRefresh  bool
		expectErr      error
		expectSession  bool
		expectRefresh  int
		expectAttempts int
	}{
		{description: "401 then success with refreshed token", forced: 1, expectSession: true, expectRefresh: 1, expectAttempts: 2},
		{description: "refresh rejected forces logout", forced: 1, rejectRefresh: true, expectErr: schema.ErrAuthExpired, expectRefresh: 1, expectAttempts: 1},
		{description: "replay rejected forces logout", forced: 2, expectErr: schema.ErrAuthExpired, expectRefresh: 1, expectAttempts: 2},
		{description: "no 401, no refresh", expectSession: true, expectAttempts: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			backend, baseURL := newBackend(t)
			aStore := store.NewMemoryStore()
			manager := session.New(baseURL, session.WithStore(aStore))
			initial := login(t, manager)
			backend.ForceUnauthorized(api.PathMachines, testCase.forced)
			backend.RejectRefresh(testCase.rejectRefresh)

			machines, err := manager.API().Machines(context.Background())
			assert.Equal(t, testCase.expectRefresh, backend.Calls(api.PathTokenRefresh), testCase.description)
			assert.Equal(t, testCase.expectAttempts, backend.Calls(api.PathMachines), testCase.description)
			if testCase.expectErr != nil {
				require.Error(t, err, testCase.description)
				assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
				assert.Equal(t, http.StatusUnauthorized, schema.StatusCode(err), testCase.description)
			} else {
				require.NoError(t, err, testCase.description)
				assert.Len(t, machines, 2, testCase.description)
			}
			if !testCase.expectSession {
				assert.Empty(t, manager.Token(), testCase.description)
				assert.Nil(t, manager.CurrentUser(), testCase.description)
				for _, key := range store.SessionKeys {
					_, ok := aStore.Get(key)
					assert.False(t, ok, testCase.description+" "+key)
				}
				return
			}
			current := manager.Token()
			if testCase.expectRefresh > 0 {
				assert.NotEqual(t, initial, current, testCase.description)
			}
			assert.Equal(t, "Bearer "+current, backend.LastAuthorization(api.PathMachines), testCase.description)
			stored, _ := aStore.Get(store.AccessTokenKey)
			assert.Equal(t, current, stored, testCase.description)
			assert.NotNil(t, manager.CurrentUser(), testCase.description)
		})
	}
}

func TestManager_ConcurrentUnauthorized(t *testing.T) {
	backend, baseURL := newBackend(t)
	manager := session.New(baseURL)
	stale := login(t, manager)
	backend.RevokeAccessToken(stale)

	const callers = 8
	var wg sync.WaitGroup
	var failures int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.API().Labels(context.Background()); err != nil {
				atomic.AddInt32(&failures, 1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&failures))
	assert.Equal(t, 1, backend.Calls(api.PathTokenRefresh))
	assert.NotEqual(t, stale, manager.Token())
}

func TestManager_Refresh(t *testing.T) {
	t.Run("rotated refresh token is persisted", func(t *testing.T) {
		_, baseURL := newBackend(t, mock.WithRefreshRotation())
		aStore := store.NewMemoryStore()
		manager := session.New(baseURL, session.WithStore(aStore))
		login(t, manager)
		before, _ := aStore.Get(store.RefreshTokenKey)

		require.NoError(t, manager.Refresh(context.Background()))
		after, _ := aStore.Get(store.RefreshTokenKey)
		assert.NotEqual(t, before, after)
		assert.Equal(t, after, manager.Snapshot().RefreshToken)
		assert.Equal(t, session.Authenticated, manager.State())
	})

	t.Run("refresh token kept when not rotated", func(t *testing.T) {
		_, baseURL := newBackend(t)
		aStore := store.NewMemoryStore()
		manager := session.New(baseURL, session.WithStore(aStore))
		access := login(t, manager)
		before, _ := aStore.Get(store.RefreshTokenKey)

		require.NoError(t, manager.Refresh(context.Background()))
		after, _ := aStore.Get(store.RefreshTokenKey)
		assert.Equal(t, before, after)
		assert.NotEqual(t, access, manager.Token())
	})

	t.Run("missing refresh token clears session", func(t *testing.T) {
		_, baseURL := newBackend(t)
		aStore := store.NewMemoryStore(store.WithEntry(store.AccessTokenKey, "stale"))
		manager := session.New(baseURL, session.WithStore(aStore))
		require.Equal(t, "stale", manager.Token())

		err := manager.Refresh(context.Background())
		assert.ErrorIs(t, err, schema.ErrNoRefreshToken)
		assert.ErrorIs(t, err, schema.ErrAuthExpired)
		assert.Empty(t, manager.Token())
		_, ok := aStore.Get(store.AccessTokenKey)
		assert.False(t, ok)
	})

	t.Run("rejected refresh clears session", func(t *testing.T) {
		backend, baseURL := newBackend(t)
		aStore := store.NewMemoryStore()
		manager := session.New(baseURL, session.WithStore(aStore))
		login(t, manager)
		backend.RejectRefresh(true)

		err := manager.Refresh(context.Background())
		assert.ErrorIs(t, err, schema.ErrAuthExpired)
		assert.Empty(t, manager.Token())
		assert.Equal(t, session.Anonymous, manager.State())
		_, ok := aStore.Get(store.RefreshTokenKey)
		assert.False(t, ok)
	})
}

func TestManager_Register(t *testing.T) {
	var testCases = []struct {
		description  string
		request      *schema.RegisterRequest
		expectErr    error
		expectFields []string
	}{
		{
			description: "valid account",
			request:     &schema.RegisterRequest{Email: "john@example.com", Password: "secret123", FirstName: "John", LastName: "Smith"},
		},
		{
			description:  "duplicate email",
			request:      &schema.RegisterRequest{Email: testEmail, Password: "secret123", FirstName: "Jane", LastName: "Doe"},
			expectErr:    schema.ErrValidation,
			expectFields: []string{"email"},
		},
		{
			description:  "invalid fields",
			request:      &schema.RegisterRequest{Email: "not-an-email", Password: "123"},
			expectErr:    schema.ErrValidation,
			expectFields: []string{"email", "password", "first_name", "last_name"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, baseURL := newBackend(t)
			manager := session.New(baseURL)
			response, err := manager.Register(context.Background(), testCase.request)
			assert.Empty(t, manager.Token(), testCase.description)
			if testCase.expectErr != nil {
				require.Error(t, err, testCase.description)
				assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
				var apiErr *schema.Error
				require.ErrorAs(t, err, &apiErr, testCase.description)
				for _, field := range testCase.expectFields {
					assert.True(t, apiErr.HasField(field), testCase.description+" "+field)
				}
				return
			}
			require.NoError(t, err, testCase.description)
			require.NotNil(t, response.User, testCase.description)
			assert.Equal(t, testCase.request.Email, response.User.Email, testCase.description)
			require.NoError(t, manager.Login(context.Background(), testCase.request.Email, testCase.request.Password), testCase.description)
			manager.Wait()
		})
	}
}

func TestManager_Subscribe(t *testing.T) {
	_, baseURL := newBackend(t)
	manager := session.New(baseURL)

	var mu sync.Mutex
	var received []*schema.UserProfile
	cancel := manager.Subscribe(func(user *schema.UserProfile) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, user)
	})
	login(t, manager)
	cancel()
	manager.Logout()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Nil(t, received[0])
	require.NotNil(t, received[1])
	assert.Equal(t, testEmail, received[1].Email)
}

func TestManager_LoadProfile(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		_, baseURL := newBackend(t)
		manager := session.New(baseURL)
		_, err := manager.EnsureProfile(context.Background())
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	t.Run("unauthorized ends session", func(t *testing.T) {
		backend, baseURL := newBackend(t)
		manager := session.New(baseURL)
		token := login(t, manager)
		backend.RevokeAccessToken(token)
		backend.RejectRefresh(true)

		_, err := manager.LoadProfile(context.Background())
		assert.ErrorIs(t, err, schema.ErrAuthExpired)
		assert.Empty(t, manager.Token())
		assert.Nil(t, manager.CurrentUser())
	})

	t.Run("server error keeps token", func(t *testing.T) {
		backend := mock.New(mock.WithUser(testEmail, testPassword, "Jane", "Doe"))
		var failing int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.LoadInt32(&failing) == 1 && r.URL.Path == mock.DefaultPrefix+api.PathProfile {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			backend.Handler().ServeHTTP(w, r)
		}))
		defer server.Close()
		aStore := store.NewMemoryStore()
		manager := session.New(server.URL+mock.DefaultPrefix, session.WithStore(aStore))
		token := login(t, manager)
		atomic.StoreInt32(&failing, 1)

		_, err := manager.LoadProfile(context.Background())
		assert.ErrorIs(t, err, schema.ErrServer)
		assert.Equal(t, token, manager.Token())
		assert.NotNil(t, manager.CurrentUser())
	})

	t.Run("ensure fetches missing profile and caches it", func(t *testing.T) {
		backend, baseURL := newBackend(t)
		aStore := store.NewMemoryStore()
		login(t, session.New(baseURL, session.WithStore(aStore)))
		require.NoError(t, aStore.Remove(store.UserProfileKey))

		manager := session.New(baseURL, session.WithStore(aStore))
		require.Nil(t, manager.CurrentUser())
		profileCalls := backend.Calls(api.PathProfile)
		user, err := manager.EnsureProfile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testEmail, user.Email)
		_, err = manager.EnsureProfile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, profileCalls+1, backend.Calls(api.PathProfile))

		data, ok := aStore.Get(store.UserProfileKey)
		require.True(t, ok)
		cached := &schema.UserProfile{}
		require.NoError(t, json.Unmarshal([]byte(data), cached))
		assert.Equal(t, user.ID, cached.ID)
	})

	t.Run("late profile does not restore logged out session", func(t *testing.T) {
		backend := mock.New(mock.WithUser(testEmail, testPassword, "Jane", "Doe"))
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == mock.DefaultPrefix+api.PathProfile {
				<-release
			}
			backend.Handler().ServeHTTP(w, r)
		}))
		defer server.Close()
		aStore := store.NewMemoryStore()
		manager := session.New(server.URL+mock.DefaultPrefix, session.WithStore(aStore), session.WithProfileTimeout(5*time.Second))

		require.NoError(t, manager.Login(context.Background(), testEmail, testPassword))
		manager.Logout()
		close(release)
		manager.Wait()

		assert.Nil(t, manager.CurrentUser())
		assert.Empty(t, manager.Token())
		_, ok := aStore.Get(store.UserProfileKey)
		assert.False(t, ok)
	})
}

func TestManager_RefreshInterrupted(t *testing.T) {
	var testCases = []struct {
		description string
		interrupt   func(t *testing.T, manager *session.Manager)
		expectLogin bool
	}{
		{
			description: "logout during refresh",
			interrupt: func(t *testing.T, manager *session.Manager) {
				manager.Logout()
			},
		},
		{
			description: "login during refresh",
			interrupt: func(t *testing.T, manager *session.Manager) {
				require.NoError(t, manager.Login(context.Background(), testEmail, testPassword))
				manager.Wait()
			},
			expectLogin: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			backend := mock.New(mock.WithUser(testEmail, testPassword, "Jane", "Doe"))
			entered := make(chan struct{})
			release := make(chan struct{})
			var once sync.Once
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == mock.DefaultPrefix+api.PathTokenRefresh {
					once.Do(func() { close(entered) })
					<-release
				}
				backend.Handler().ServeHTTP(w, r)
			}))
			defer server.Close()
			aStore := store.NewMemoryStore()
			manager := session.New(server.URL+mock.DefaultPrefix, session.WithStore(aStore))
			original := login(t, manager)

			done := make(chan error, 1)
			go func() {
				done <- manager.Refresh(context.Background())
			}()
			<-entered
			testCase.interrupt(t, manager)
			current := manager.Token()
			close(release)
			err := <-done

			require.Error(t, err, testCase.description)
			assert.ErrorIs(t, err, schema.ErrAuthExpired, testCase.description)
			access, hasAccess := aStore.Get(store.AccessTokenKey)
			if !testCase.expectLogin {
				assert.Empty(t, manager.Token(), testCase.description)
				assert.Equal(t, session.Anonymous, manager.State(), testCase.description)
				assert.False(t, hasAccess, testCase.description)
				_, hasRefresh := aStore.Get(store.RefreshTokenKey)
				assert.False(t, hasRefresh, testCase.description)
				return
			}
			assert.NotEqual(t, original, current, testCase.description)
			assert.Equal(t, current, manager.Token(), testCase.description)
			assert.Equal(t, session.Authenticated, manager.State(), testCase.description)
			assert.True(t, hasAccess, testCase.description)
			assert.Equal(t, current, access, testCase.description)
		})
	}
}

type countingStore struct {
	store.Store
	gets atomic.Int32
}

func (s *countingStore) Get(key string) (string, bool) {
	s.gets.Add(1)
	return s.Store.Get(key)
}

func TestManager_TokenReadsStoreOnce(t *testing.T) {
	_, baseURL := newBackend(t)
	aStore := &countingStore{Store: store.NewMemoryStore()}
	manager := session.New(baseURL, session.WithStore(aStore))
	afterNew := aStore.gets.Load()

	for i := 0; i < 10; i++ {
		assert.Empty(t, manager.Token())
		assert.False(t, manager.IsAuthenticated())
	}
	assert.Nil(t, manager.OAuthToken())
	assert.Equal(t, session.Session{}, manager.Snapshot())
	assert.Equal(t, afterNew, aStore.gets.Load())
}
