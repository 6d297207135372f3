package store

import (
	"context"
	"sync"
	"time"

	"intraday-arb/internal/intraday"
)

type memoryEntry struct {
	result    *intraday.Result
	expiresAt time.Time
}

// MemoryStore is an in-process ResultStore with a fixed TTL. Results are
// lost on restart; use RedisStore when several API replicas share state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore starts a cleanup goroutine that runs every cleanupEvery.
// Close stops it.
func NewMemoryStore(ttl, cleanupEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go s.cleanup(cleanupEvery)
	}
	return s
}

func (s *MemoryStore) Put(_ context.Context, res *intraday.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[res.ID] = memoryEntry{result: res, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*intraday.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, ErrNotFound
	}
	return e.result, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
