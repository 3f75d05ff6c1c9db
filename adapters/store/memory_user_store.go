package store

import (
	"context"
	"sync"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// MemoryUserStore is an in-memory implementation of the user store,
// intended for tests and single-instance deployments
type MemoryUserStore struct {
	hasher ports.PasswordHasher
	mu     sync.RWMutex
	users  map[core.Email]core.User
}

// NewMemoryUserStore creates an empty in-memory user store
func NewMemoryUserStore(hasher ports.PasswordHasher) *MemoryUserStore {
	return &MemoryUserStore{
		hasher: hasher,
		users:  make(map[core.Email]core.User),
	}
}

var _ ports.UserStore = (*MemoryUserStore)(nil)

// Add persists the identity. The check-then-insert happens under a single
// lock, so concurrent adds for the same email admit exactly one.
func (s *MemoryUserStore) Add(ctx context.Context, user core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return core.ErrAlreadyExists
	}
	s.users[user.Email] = user
	return nil
}

// Get returns the identity record for email
func (s *MemoryUserStore) Get(ctx context.Context, email core.Email) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return user, nil
}

// Validate verifies the password through the hasher. The lock is released
// before hashing starts; verification never runs under the store lock.
func (s *MemoryUserStore) Validate(ctx context.Context, email core.Email, password core.Password) error {
	user, err := s.Get(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrInvalidCredentials
	}
	return nil
}
