package store

import (
	"context"
	"sync"
	"time"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// twoFACodeTTL is the fixed lifetime of a second-factor challenge
const twoFACodeTTL = 10 * time.Minute

type twoFAEntry struct {
	attemptID core.LoginAttemptID
	code      core.TwoFACode
	expiresAt time.Time
}

// MemoryTwoFACodeStore holds at most one live second-factor challenge per
// email in memory. TTL is emulated with an expiry instant checked on read.
type MemoryTwoFACodeStore struct {
	mu      sync.RWMutex
	entries map[core.Email]twoFAEntry

	now func() time.Time
}

// NewMemoryTwoFACodeStore creates an empty in-memory challenge store
func NewMemoryTwoFACodeStore() *MemoryTwoFACodeStore {
	return &MemoryTwoFACodeStore{
		entries: make(map[core.Email]twoFAEntry),
		now:     time.Now,
	}
}

var _ ports.TwoFACodeStore = (*MemoryTwoFACodeStore)(nil)

// AddCode stores the challenge pair, superseding any previous challenge
// for the same email
func (s *MemoryTwoFACodeStore) AddCode(ctx context.Context, email core.Email, attemptID core.LoginAttemptID, code core.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = twoFAEntry{
		attemptID: attemptID,
		code:      code,
		expiresAt: s.now().Add(twoFACodeTTL),
	}
	return nil
}

// GetCode returns the live challenge pair for email
func (s *MemoryTwoFACodeStore) GetCode(ctx context.Context, email core.Email) (core.LoginAttemptID, core.TwoFACode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[email]
	if !ok || !s.now().Before(entry.expiresAt) {
		return core.LoginAttemptID{}, core.TwoFACode{}, core.ErrNotFound
	}
	return entry.attemptID, entry.code, nil
}

// RemoveCode deletes the challenge for email; absence is not an error
func (s *MemoryTwoFACodeStore) RemoveCode(ctx context.Context, email core.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}
