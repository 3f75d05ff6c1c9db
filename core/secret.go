package core

import "crypto/subtle"

// Secret wraps a sensitive string (password, session token, second-factor
// code) so it cannot leak through logging or formatting. The raw value is
// only reachable through Expose.
type Secret struct {
	value string
}

// NewSecret wraps a raw sensitive value
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the wrapped value. Call sites are the audit surface for
// raw secret usage.
func (s Secret) Expose() string {
	return s.value
}

// Equal compares two secrets by value in constant time
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

func (s Secret) String() string {
	return "[REDACTED]"
}

func (s Secret) GoString() string {
	return "[REDACTED]"
}

// MarshalJSON keeps secrets out of serialized payloads
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
