package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-auth/aegis/core"
)

func newChallenge(t *testing.T) (core.LoginAttemptID, core.TwoFACode) {
	t.Helper()
	code, err := core.NewTwoFACode()
	require.NoError(t, err)
	return core.NewLoginAttemptID(), code
}

func TestMemoryTwoFACodeStoreAddAndGet(t *testing.T) {
	s := NewMemoryTwoFACodeStore()
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))

	gotID, gotCode, err := s.GetCode(ctx, email)
	require.NoError(t, err)
	assert.True(t, attemptID.Equal(gotID))
	assert.True(t, code.Equal(gotCode))
}

func TestMemoryTwoFACodeStoreGetMissing(t *testing.T) {
	s := NewMemoryTwoFACodeStore()

	_, _, err := s.GetCode(context.Background(), mustEmail(t, "missing@b.com"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoryTwoFACodeStoreAddSupersedes(t *testing.T) {
	s := NewMemoryTwoFACodeStore()
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")

	firstID, firstCode := newChallenge(t)
	secondID, secondCode := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, firstID, firstCode))
	require.NoError(t, s.AddCode(ctx, email, secondID, secondCode))

	gotID, gotCode, err := s.GetCode(ctx, email)
	require.NoError(t, err)
	assert.True(t, secondID.Equal(gotID))
	assert.True(t, secondCode.Equal(gotCode))
	assert.False(t, firstID.Equal(gotID))
}

func TestMemoryTwoFACodeStoreRemove(t *testing.T) {
	s := NewMemoryTwoFACodeStore()
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))
	require.NoError(t, s.RemoveCode(ctx, email))

	_, _, err := s.GetCode(ctx, email)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Removing an absent challenge is not an error
	assert.NoError(t, s.RemoveCode(ctx, email))
}

func TestMemoryTwoFACodeStoreEntriesExpire(t *testing.T) {
	s := NewMemoryTwoFACodeStore()
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))

	_, _, err := s.GetCode(ctx, email)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(twoFACodeTTL + time.Second) }

	_, _, err = s.GetCode(ctx, email)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
