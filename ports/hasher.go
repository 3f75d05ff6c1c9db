package ports

import (
	"context"

	"github.com/aegis-auth/aegis/core"
)

// PasswordHasher computes and verifies salted password hashes. Both
// operations are CPU-bound; implementations gate concurrency so hashing
// cannot starve I/O-bound requests, and callers block on ctx while waiting
// for a slot.
type PasswordHasher interface {
	// Hash derives a self-describing encoded hash with a per-call random salt
	Hash(ctx context.Context, password core.Password) (string, error)

	// Verify reports whether candidate matches the encoded hash. A malformed
	// stored hash is an error, never a silent false.
	Verify(ctx context.Context, encodedHash string, candidate core.Password) (bool, error)
}
