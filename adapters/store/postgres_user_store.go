package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// PostgresUserStore is a Postgres implementation of the user store backed
// by a pgx connection pool. The unique email constraint serializes
// concurrent adds; exactly one wins, the rest see core.ErrAlreadyExists.
type PostgresUserStore struct {
	pool   *pgxpool.Pool
	hasher ports.PasswordHasher
}

// NewPostgresUserStore creates a Postgres-backed user store
func NewPostgresUserStore(pool *pgxpool.Pool, hasher ports.PasswordHasher) *PostgresUserStore {
	return &PostgresUserStore{pool: pool, hasher: hasher}
}

var _ ports.UserStore = (*PostgresUserStore)(nil)

// Add persists the identity; the primary key rejects duplicate emails
func (s *PostgresUserStore) Add(ctx context.Context, user core.User) error {
	query := `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
	`

	if _, err := s.pool.Exec(ctx, query, user.Email.String(), user.PasswordHash, user.RequiresTwoFA); err != nil {
		return mapPostgresError(err)
	}
	return nil
}

// Get returns the identity record for email
func (s *PostgresUserStore) Get(ctx context.Context, email core.Email) (core.User, error) {
	query := `
		SELECT email, password_hash, requires_2fa
		FROM users
		WHERE email = $1
	`

	var (
		addr          string
		passwordHash  string
		requiresTwoFA bool
	)
	if err := s.pool.QueryRow(ctx, query, email.String()).Scan(&addr, &passwordHash, &requiresTwoFA); err != nil {
		return core.User{}, mapPostgresError(err)
	}

	storedEmail, err := core.ParseEmail(addr)
	if err != nil {
		return core.User{}, fmt.Errorf("%w: stored email is invalid: %v", core.ErrUnexpected, err)
	}

	return core.User{
		Email:         storedEmail,
		PasswordHash:  passwordHash,
		RequiresTwoFA: requiresTwoFA,
	}, nil
}

// Validate verifies the password through the hasher
func (s *PostgresUserStore) Validate(ctx context.Context, email core.Email, password core.Password) error {
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
