package core

import "errors"

var (
	// ErrAlreadyExists is returned when an identity with the same email is already registered
	ErrAlreadyExists = errors.New("user already exists")

	// ErrNotFound is returned when a requested record does not exist or has expired
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when a password or second-factor challenge does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a session token fails verification or has been banned
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedInput is returned when input fails format validation before reaching any store
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnexpected is returned when a backend or infrastructure operation fails
	ErrUnexpected = errors.New("unexpected error")
)
