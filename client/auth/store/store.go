package store

import (
	"errors"
	"sync"
)

// Well-known credential keys
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserProfileKey  = "user_profile"
)

// SessionKeys lists all keys owned by a session
var SessionKeys = []string{AccessTokenKey, RefreshTokenKey, UserProfileKey}

// Store is a synchronous key-value credential store
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// RemoveAll removes all keys, returning joined errors
func RemoveAll(s Store, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := s.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type MemoryStoreOption func(*memoryStore)

// WithEntry seeds memory store entry
func WithEntry(key, value string) MemoryStoreOption {
	return func(m *memoryStore) {
		m.entries[key] = value
	}
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func (m *memoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

func (m *memoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// NewMemoryStore creates process local store
func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{entries: map[string]string{}}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
