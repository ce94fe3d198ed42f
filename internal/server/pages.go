package server

import (
	"sync"
	"time"

	"barkboard/internal/board"

	"github.com/ReneKroon/ttlcache/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// page is one loaded copy of the board in a visitor's browser. The lock only
// guards reads and updates; it is never held across a chain call. Overlapping
// operations each write back only the fields they own, so the later one wins
// for its own counter and history and leaves the rest alone.
type page struct {
	mu    sync.Mutex
	state board.State
}

func (p *page) snapshot() board.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *page) update(fn func(*board.State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
}

// take returns the state to render and consumes its one-shot alert.
func (p *page) take() board.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.state
	p.state.Alert = ""
	return st
}

// pageStore expires pages that have not been touched for ttl.
type pageStore struct {
	cache *ttlcache.Cache
}

func newPageStore(ttl time.Duration) (*pageStore, error) {
	cache := ttlcache.NewCache()
	if err := cache.SetTTL(ttl); err != nil {
		return nil, errors.WithStack(err)
	}
	return &pageStore{cache: cache}, nil
}

func (s *pageStore) open(st board.State) (string, *page, error) {
	id := uuid.NewString()
	p := &page{state: st}
	if err := s.cache.Set(id, p); err != nil {
		return "", nil, errors.WithStack(err)
	}
	return id, p, nil
}

func (s *pageStore) get(id string) (*page, bool) {
	if id == "" {
		return nil, false
	}
	v, err := s.cache.Get(id)
	if err != nil {
		return nil, false
	}
	p, ok := v.(*page)
	return p, ok
}

func (s *pageStore) count() int {
	return s.cache.Count()
}

func (s *pageStore) close() error {
	return s.cache.Close()
}
