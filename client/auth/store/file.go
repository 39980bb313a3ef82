package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/viant/afs"
)

const fileMode = 0o600

// persister loads and saves the whole snapshot
type persister interface {
	load(ctx context.Context) (map[string]string, error)
	save(ctx context.Context, entries map[string]string) error
	clear(ctx context.Context) error
}

// DurableStore keeps entries in memory and rewrites the persisted snapshot wholesale on every mutation.
// A mutation that fails to persist is rolled back in memory.
type DurableStore struct {
	mu        sync.RWMutex
	entries   map[string]string
	persister persister
}

func (d *DurableStore) Get(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.entries[key]
	return value, ok
}

func (d *DurableStore) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, existed := d.entries[key]
	if existed && prev == value {
		return nil
	}
	d.entries[key] = value
	if err := d.flush(); err != nil {
		if existed {
			d.entries[key] = prev
		} else {
			delete(d.entries, key)
		}
		return err
	}
	return nil
}

func (d *DurableStore) Remove(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, ok := d.entries[key]
	if !ok {
		return nil
	}
	delete(d.entries, key)
	if err := d.flush(); err != nil {
		d.entries[key] = prev
		return err
	}
	return nil
}

func (d *DurableStore) flush() error {
	ctx := context.Background()
	if len(d.entries) == 0 {
		return d.persister.clear(ctx)
	}
	return d.persister.save(ctx, d.entries)
}

func newDurableStore(p persister) (*DurableStore, error) {
	entries, err := p.load(context.Background())
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return &DurableStore{entries: entries, persister: p}, nil
}

type snapshot struct {
	Entries map[string]string `json:"entries"`
}

type filePersister struct {
	URL string
	fs  afs.Service
}

func (f *filePersister) load(ctx context.Context) (map[string]string, error) {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return nil, err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var snap snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode credentials %v: %w", f.URL, err)
	}
	return snap.Entries, nil
}

func (f *filePersister) save(ctx context.Context, entries map[string]string) error {
	data, err := json.MarshalIndent(snapshot{Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, fileMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write credentials %v: %w", f.URL, err)
	}
	return nil
}

func (f *filePersister) clear(ctx context.Context) error {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, f.URL)
}

// NewFileStore creates a store persisting a JSON snapshot at URL (local path, file:// or mem://)
func NewFileStore(URL string) (*DurableStore, error) {
	return newDurableStore(&filePersister{URL: URL, fs: afs.New()})
}
