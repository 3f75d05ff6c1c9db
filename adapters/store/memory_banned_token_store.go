package store

import (
	"context"
	"sync"
	"time"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// MemoryBannedTokenStore is an in-memory denylist of session tokens. The
// map has no native TTL, so every entry carries an expiry instant checked
// on read; expired entries are swept opportunistically on writes.
type MemoryBannedTokenStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	now func() time.Time
}

// NewMemoryBannedTokenStore creates an empty in-memory denylist
func NewMemoryBannedTokenStore() *MemoryBannedTokenStore {
	return &MemoryBannedTokenStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

var _ ports.BannedTokenStore = (*MemoryBannedTokenStore)(nil)

// Ban records the token until now+ttl. Re-banning overwrites the expiry;
// it is never an error.
func (s *MemoryBannedTokenStore) Ban(ctx context.Context, token core.Secret, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[token.Expose()] = now.Add(ttl)
	s.sweepLocked(now)
	return nil
}

// IsBanned reports whether the token is on the denylist. An entry past its
// expiry counts as absent; the token's own expiry is the codec's concern.
func (s *MemoryBannedTokenStore) IsBanned(ctx context.Context, token core.Secret) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, ok := s.entries[token.Expose()]
	if !ok {
		return false, nil
	}
	return s.now().Before(expiry), nil
}

func (s *MemoryBannedTokenStore) sweepLocked(now time.Time) {
	for token, expiry := range s.entries {
		if !now.Before(expiry) {
			delete(s.entries, token)
		}
	}
}
