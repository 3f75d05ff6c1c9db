package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// AudienceSession marks tokens issued for authenticated sessions
const AudienceSession = "aegis:session"

// minKeyLength is the minimum HMAC key size in bytes (256 bits)
const minKeyLength = 32

// Config carries the signing key and token lifetime. It is constructed
// explicitly and handed to the tokenizer, never read from process-global
// state, so tests can inject distinct keys per instance.
type Config struct {
	SigningKey []byte
	TokenTTL   time.Duration
}

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs
type JWTTokenizer struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// NewJWTTokenizer validates the config and creates a tokenizer
func NewJWTTokenizer(cfg Config) (*JWTTokenizer, error) {
	if len(cfg.SigningKey) < minKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", minKeyLength)
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &JWTTokenizer{
		signingKey: cfg.SigningKey,
		tokenTTL:   cfg.TokenTTL,
	}, nil
}

var _ ports.Tokenizer = (*JWTTokenizer)(nil)

// Issue produces a signed session token for the user
func (j *JWTTokenizer) Issue(user core.User) (core.Secret, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.signingKey)
	if err != nil {
		return core.Secret{}, fmt.Errorf("%w: failed to sign token: %v", core.ErrUnexpected, err)
	}

	return core.NewSecret(signed), nil
}

// Verify checks signature, audience and expiry, then maps the claims back
// onto a session. The signature is verified before any claim is trusted.
func (j *JWTTokenizer) Verify(tokenSecret core.Secret) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenSecret.Expose(), &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.signingKey, nil
	}, jwt.WithAudience(AudienceSession), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	email, err := core.ParseEmail(claims.Subject)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	return &core.Session{
		Email:     email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
