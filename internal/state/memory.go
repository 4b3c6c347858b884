package state

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	originURL string
	expiresAt time.Time
}

// MemoryStore keeps state tokens in a mutex-guarded map. Expiry is
// checked lazily on consume and a janitor sweep removes abandoned
// entries so the map cannot grow without bound.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose tokens expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create mints a token and records the originating URL.
func (s *MemoryStore) Create(_ context.Context, originURL string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{
		originURL: originURL,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Consume deletes the token under the lock, so concurrent callbacks
// racing on the same token see exactly one winner.
func (s *MemoryStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.entries, token)

	if s.now().After(e.expiresAt) {
		return "", ErrNotFound
	}
	return e.originURL, nil
}

// StartJanitor sweeps expired entries until ctx is cancelled. Tokens
// from abandoned logins are never consumed, so lazy expiry alone would
// leak them.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
