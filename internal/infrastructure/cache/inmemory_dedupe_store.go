package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopbridge/backend/internal/domain/shared"
)

// dedupeEntry records when a claimed import key expires
type dedupeEntry struct {
	expiresAt time.Time
}

// InMemoryDedupeStore tracks already-submitted row keys in a process-local
// map. Suitable for single-instance deployments and tests; keys are not
// shared across instances, so concurrent imports of the same file on two
// instances can still double-submit (the platform-side idempotency header
// remains the real guard).
type InMemoryDedupeStore struct {
	mu        sync.RWMutex
	entries   map[string]dedupeEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDedupeStore creates the store and starts its janitor goroutine
func NewInMemoryDedupeStore() *InMemoryDedupeStore {
	store := &InMemoryDedupeStore{
		entries:  make(map[string]dedupeEntry),
		stopChan: make(chan struct{}),
	}
	store.wg.Add(1)
	go store.janitor()
	return store
}

// MarkProcessed claims a row key for the TTL window. Returns true when the
// key was newly claimed, false when a previous run already holds it.
func (s *InMemoryDedupeStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = dedupeEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed reports whether a row key is currently claimed
func (s *InMemoryDedupeStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the janitor. Safe to call multiple times.
func (s *InMemoryDedupeStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryDedupeStore) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *InMemoryDedupeStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of claimed keys (for tests and monitoring)
func (s *InMemoryDedupeStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.IdempotencyStore = (*InMemoryDedupeStore)(nil)
