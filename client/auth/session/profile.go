package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/viant/mycoach/client/auth/store"
	"github.com/viant/mycoach/schema"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by profile operations when no access token is present
var ErrNotAuthenticated = errors.New("not authenticated")

// LoadProfile fetches the user profile. An authorization failure that survives the refresh ends
// the session, any other error keeps the token.
func (m *Manager) LoadProfile(ctx context.Context) (*schema.UserProfile, error) {
	if m.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()
	return m.loadProfile(ctx, generation)
}

// EnsureProfile returns the loaded user, fetching it when a token exists but no user has been loaded yet
func (m *Manager) EnsureProfile(ctx context.Context) (*schema.UserProfile, error) {
	if m.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if user := m.CurrentUser(); user != nil {
		return user, nil
	}
	return m.LoadProfile(ctx)
}

func (m *Manager) loadProfile(ctx context.Context, generation uint64) (*schema.UserProfile, error) {
	user, err := m.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, schema.ErrAuthExpired) && m.isGeneration(generation) {
			m.clear("profile unauthorized")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	m.mu.Lock()
	if m.generation != generation || m.token == nil {
		m.mu.Unlock()
		m.logger.Debug("discarding profile of ended session", zap.Int("user", user.ID))
		return user, nil
	}
	if err = m.store.Set(store.UserProfileKey, string(data)); err != nil {
		m.logger.Warn("failed to cache profile", zap.Error(err))
	}
	m.user = user
	m.mu.Unlock()
	m.notify(user)
	return user, nil
}

func (m *Manager) isGeneration(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == generation
}
