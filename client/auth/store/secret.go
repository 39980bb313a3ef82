package store

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// DefaultEncryptionKey uses scy blowfish kms with its default key
const DefaultEncryptionKey = "blowfish://default"

type secretPersister struct {
	URL     string
	key     string
	fs      afs.Service
	secrets *scy.Service
}

func (s *secretPersister) resource() *scy.Resource {
	return scy.NewResource(&snapshot{}, s.URL, s.key)
}

func (s *secretPersister) load(ctx context.Context) (map[string]string, error) {
	ok, err := s.fs.Exists(ctx, s.URL)
	if err != nil || !ok {
		return nil, err
	}
	secret, err := s.secrets.Load(ctx, s.resource())
	if err != nil {
		return nil, fmt.Errorf("failed to load encrypted credentials %v: %w", s.URL, err)
	}
	snap, ok := secret.Target.(*snapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected credentials type %T", secret.Target)
	}
	return snap.Entries, nil
}

func (s *secretPersister) save(ctx context.Context, entries map[string]string) error {
	secret := scy.NewSecret(&snapshot{Entries: entries}, s.resource())
	if err := s.secrets.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store encrypted credentials %v: %w", s.URL, err)
	}
	return nil
}

func (s *secretPersister) clear(ctx context.Context) error {
	ok, err := s.fs.Exists(ctx, s.URL)
	if err != nil || !ok {
		return err
	}
	return s.fs.Delete(ctx, s.URL)
}

// NewSecretStore creates a store persisting an encrypted snapshot at URL
func NewSecretStore(URL, key string) (*DurableStore, error) {
	if key == "" {
		key = DefaultEncryptionKey
	}
	return newDurableStore(&secretPersister{URL: URL, key: key, fs: afs.New(), secrets: scy.New()})
}
