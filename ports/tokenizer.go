package ports

import "github.com/aegis-auth/aegis/core"

// Tokenizer issues signed, expiring bearer tokens and verifies them
// independent of storage. Revocation is not its concern; the service
// combines codec validity with the banned-token store.
type Tokenizer interface {
	// Issue produces a signed token embedding the identity's email and an
	// absolute expiry instant
	Issue(user core.User) (core.Secret, error)

	// Verify checks the signature before trusting any embedded claim and
	// rejects tokens at or past their expiry with core.ErrInvalidToken
	Verify(token core.Secret) (*core.Session, error)
}
