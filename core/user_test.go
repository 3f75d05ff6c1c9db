package core

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid address", input: "user@example.com", wantErr: false},
		{name: "bare at sign suffix", input: "email@", wantErr: false},
		{name: "missing at sign", input: "email", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := ParseEmail(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, email.String())
		})
	}
}

func TestParseEmailIsCaseSensitive(t *testing.T) {
	lower, err := ParseEmail("user@example.com")
	require.NoError(t, err)
	upper, err := ParseEmail("User@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, lower, upper)
}

func TestParsePassword(t *testing.T) {
	_, err := ParsePassword(NewSecret("short77"))
	require.ErrorIs(t, err, ErrMalformedInput)

	password, err := ParsePassword(NewSecret("password123"))
	require.NoError(t, err)
	assert.Equal(t, "password123", password.Secret().Expose())
}

func TestSecretDoesNotLeak(t *testing.T) {
	secret := NewSecret("hunter2hunter2")

	assert.Equal(t, "[REDACTED]", secret.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", secret))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", secret))

	payload, err := json.Marshal(secret)
	require.NoError(t, err)
	assert.JSONEq(t, `"[REDACTED]"`, string(payload))

	assert.Equal(t, "hunter2hunter2", secret.Expose())
}

func TestSecretEqual(t *testing.T) {
	assert.True(t, NewSecret("abc").Equal(NewSecret("abc")))
	assert.False(t, NewSecret("abc").Equal(NewSecret("abd")))
	assert.False(t, NewSecret("abc").Equal(NewSecret("abcd")))
}
