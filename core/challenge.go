package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

// LoginAttemptID identifies a single login attempt that is waiting for its
// second factor. It is an unguessable 128-bit value; equality compares the
// underlying value, not object identity.
type LoginAttemptID struct {
	id Secret
}

// NewLoginAttemptID generates a fresh random attempt identifier
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{id: NewSecret(uuid.NewString())}
}

// ParseLoginAttemptID validates that raw is a well-formed 128-bit identifier
func ParseLoginAttemptID(raw Secret) (LoginAttemptID, error) {
	parsed, err := uuid.Parse(raw.Expose())
	if err != nil {
		return LoginAttemptID{}, fmt.Errorf("%w: invalid login attempt id", ErrMalformedInput)
	}
	return LoginAttemptID{id: NewSecret(parsed.String())}, nil
}

// Secret returns the wrapped identifier value
func (a LoginAttemptID) Secret() Secret {
	return a.id
}

// Equal compares two attempt identifiers in constant time
func (a LoginAttemptID) Equal(other LoginAttemptID) bool {
	return a.id.Equal(other.id)
}

// TwoFACode is a six-digit second-factor code in [100000, 999999]. The
// original six-character form is preserved, so leading-zero inputs that a
// numeric parse would silently shorten are rejected.
type TwoFACode struct {
	code Secret
}

const (
	twoFACodeMin = 100000
	twoFACodeMax = 999999
)

// NewTwoFACode generates a random code from the full six-digit range
func NewTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(twoFACodeMax-twoFACodeMin+1))
	if err != nil {
		return TwoFACode{}, fmt.Errorf("%w: failed to generate 2FA code: %v", ErrUnexpected, err)
	}
	return TwoFACode{code: NewSecret(strconv.FormatInt(n.Int64()+twoFACodeMin, 10))}, nil
}

// ParseTwoFACode validates that raw is a six-digit code in the accepted range
func ParseTwoFACode(raw Secret) (TwoFACode, error) {
	value := raw.Expose()
	if len(value) != 6 {
		return TwoFACode{}, fmt.Errorf("%w: invalid 2FA code", ErrMalformedInput)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < twoFACodeMin || n > twoFACodeMax {
		return TwoFACode{}, fmt.Errorf("%w: invalid 2FA code", ErrMalformedInput)
	}
	return TwoFACode{code: NewSecret(value)}, nil
}

// Secret returns the wrapped code value
func (c TwoFACode) Secret() Secret {
	return c.code
}

// Equal compares two codes in constant time
func (c TwoFACode) Equal(other TwoFACode) bool {
	return c.code.Equal(other.code)
}
