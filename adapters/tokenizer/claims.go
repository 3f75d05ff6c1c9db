package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the registered claims carried by a session token.
// Subject holds the owning identity's email.
type SessionClaims struct {
	jwt.RegisteredClaims
}
