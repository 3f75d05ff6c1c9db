package core

import (
	"fmt"
	"strings"
)

// Email is a validated, case-sensitive email address. The zero value is
// not a valid email; construct one through ParseEmail.
type Email struct {
	addr string
}

// ParseEmail validates and wraps a raw email address
func ParseEmail(raw string) (Email, error) {
	if raw == "" || !strings.Contains(raw, "@") {
		return Email{}, fmt.Errorf("%w: invalid email address", ErrMalformedInput)
	}
	return Email{addr: raw}, nil
}

func (e Email) String() string {
	return e.addr
}

// Password is a validated plaintext password. The raw value stays inside
// a Secret and is never persisted or logged.
type Password struct {
	secret Secret
}

// MinPasswordLength is the minimum accepted password length in bytes
const MinPasswordLength = 8

// ParsePassword validates a raw password and wraps it
func ParsePassword(raw Secret) (Password, error) {
	if len(raw.Expose()) < MinPasswordLength {
		return Password{}, fmt.Errorf("%w: password must be at least %d characters", ErrMalformedInput, MinPasswordLength)
	}
	return Password{secret: raw}, nil
}

// Secret returns the wrapped password value
func (p Password) Secret() Secret {
	return p.secret
}

// User is an identity record as held by the credential store. PasswordHash
// is an opaque encoded hash, never the plaintext password.
type User struct {
	Email         Email
	PasswordHash  string
	RequiresTwoFA bool
}
