package ports

import (
	"context"
	"time"

	"github.com/aegis-auth/aegis/core"
)

// UserStore owns identity records keyed by unique email
type UserStore interface {
	// Add persists a new identity. Returns core.ErrAlreadyExists if the
	// email is taken; concurrent adds for the same email admit exactly one.
	Add(ctx context.Context, user core.User) error

	// Get returns the full identity record or core.ErrNotFound
	Get(ctx context.Context, email core.Email) (core.User, error)

	// Validate checks the password against the stored hash through the
	// password hasher. Returns core.ErrNotFound for a missing identity and
	// core.ErrInvalidCredentials for a non-verifying password.
	Validate(ctx context.Context, email core.Email, password core.Password) error
}

// BannedTokenStore is the denylist of invalidated session tokens. Entries
// self-expire; an absent entry means "not banned".
type BannedTokenStore interface {
	// Ban inserts the token with a TTL at least as long as its remaining
	// validity. Banning an already-banned token is not an error.
	Ban(ctx context.Context, token core.Secret, ttl time.Duration) error

	// IsBanned reports whether the token is currently on the denylist.
	// Absence is a valid false result, not an error.
	IsBanned(ctx context.Context, token core.Secret) (bool, error)
}

// TwoFACodeStore holds at most one live second-factor challenge per email
type TwoFACodeStore interface {
	// AddCode stores the challenge pair, superseding any existing challenge
	// for the same email. The entry expires after a fixed TTL.
	AddCode(ctx context.Context, email core.Email, attemptID core.LoginAttemptID, code core.TwoFACode) error

	// GetCode returns the live challenge pair or core.ErrNotFound if none
	// exists or it has expired
	GetCode(ctx context.Context, email core.Email) (core.LoginAttemptID, core.TwoFACode, error)

	// RemoveCode deletes the challenge. Removing an absent challenge is not
	// an error.
	RemoveCode(ctx context.Context, email core.Email) error
}
