package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process [AttemptStore]. All access is
// synchronous map bookkeeping under a single mutex.
type MemoryStore struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	cooldowns map[string]time.Time
}

// NewMemoryStore creates an empty in-memory attempt store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts:  make(map[string][]time.Time),
		cooldowns: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Attempts(_ context.Context, key string, since time.Time) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.attempts[key]
	// Insertion order is chronological, so the first in-window entry marks
	// the start of the result.
	for i, at := range all {
		if !at.Before(since) {
			out := make([]time.Time, len(all)-i)
			copy(out, all[i:])
			return out
		}
	}
	return nil
}

func (s *MemoryStore) AddAttempt(_ context.Context, key string, at, keepSince time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.attempts[key]
	for len(kept) > 0 && kept[0].Before(keepSince) {
		kept = kept[1:]
	}
	s.attempts[key] = append(kept, at)
}

func (s *MemoryStore) ClearAttempts(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
}

func (s *MemoryStore) Cooldown(_ context.Context, key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.cooldowns[key]
	return until, ok
}

func (s *MemoryStore) SetCooldown(_ context.Context, key string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldowns[key] = until
}

func (s *MemoryStore) ClearCooldown(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cooldowns, key)
}
