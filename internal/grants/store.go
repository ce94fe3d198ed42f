// Package grants records which account a wallet has authorized for an origin.
package grants

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Grant is one origin's authorization of an account.
type Grant struct {
	Origin    string    `json:"origin"`
	Account   string    `json:"account"`
	GrantedAt time.Time `json:"grantedAt"`
}

// Store abstracts grant persistence. Get returns nil, nil when the origin has
// never been authorized.
type Store interface {
	Get(ctx context.Context, origin string) (*Grant, error)
	Save(ctx context.Context, grant Grant) error
}

var ErrEmptyOrigin = errors.New("grant origin is empty")

// MemoryStore is mostly for testing.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Grant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Grant),
	}
}

func (m *MemoryStore) Get(_ context.Context, origin string) (*Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.data[origin]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *MemoryStore) Save(_ context.Context, grant Grant) error {
	if grant.Origin == "" {
		return ErrEmptyOrigin
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[grant.Origin] = grant
	return nil
}

// FileStore keeps grants in a JSON file so authorizations survive restarts.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]Grant
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: make(map[string]Grant),
	}
	if err := fs.load(); err != nil {
		return nil, errors.Wrapf(err, "load grants %s", path)
	}
	return fs, nil
}

func (f *FileStore) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		return nil
	}
	return json.Unmarshal(blob, &f.data)
}

func (f *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, blob, 0o600)
}

func (f *FileStore) Get(_ context.Context, origin string) (*Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.data[origin]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *FileStore) Save(_ context.Context, grant Grant) error {
	if grant.Origin == "" {
		return ErrEmptyOrigin
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[grant.Origin] = grant
	return f.persist()
}
