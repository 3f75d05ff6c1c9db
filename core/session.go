package core

import "time"

// Session describes a verified bearer token
type Session struct {
	Email     Email     // Identity the token was issued to
	IssuedAt  time.Time // When the token was signed
	ExpiresAt time.Time // When the token stops verifying
}
