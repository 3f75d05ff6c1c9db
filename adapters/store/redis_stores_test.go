package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-auth/aegis/core"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisBannedTokenStoreBanAndCheck(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisBannedTokenStore(client)
	ctx := context.Background()
	token := core.NewSecret("token-abc")

	banned, err := s.IsBanned(ctx, token)
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, s.Ban(ctx, token, time.Hour))

	banned, err = s.IsBanned(ctx, token)
	require.NoError(t, err)
	assert.True(t, banned)

	// Entries live in their own key namespace
	assert.True(t, mr.Exists("banned_token:token-abc"))
}

func TestRedisBannedTokenStoreBanIsIdempotent(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisBannedTokenStore(client)
	ctx := context.Background()
	token := core.NewSecret("token-abc")

	require.NoError(t, s.Ban(ctx, token, time.Hour))
	require.NoError(t, s.Ban(ctx, token, time.Hour))

	banned, err := s.IsBanned(ctx, token)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestRedisBannedTokenStoreEntriesExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisBannedTokenStore(client)
	ctx := context.Background()
	token := core.NewSecret("token-abc")

	require.NoError(t, s.Ban(ctx, token, time.Minute))

	mr.FastForward(time.Minute + time.Second)

	banned, err := s.IsBanned(ctx, token)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestRedisBannedTokenStoreBackendFailure(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisBannedTokenStore(client)
	ctx := context.Background()

	mr.Close()

	err := s.Ban(ctx, core.NewSecret("token-abc"), time.Hour)
	assert.ErrorIs(t, err, core.ErrUnexpected)

	_, err = s.IsBanned(ctx, core.NewSecret("token-abc"))
	assert.ErrorIs(t, err, core.ErrUnexpected)
}

func TestRedisTwoFACodeStoreAddAndGet(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))

	gotID, gotCode, err := s.GetCode(ctx, email)
	require.NoError(t, err)
	assert.True(t, attemptID.Equal(gotID))
	assert.True(t, code.Equal(gotCode))

	// Entries live in their own key namespace with the challenge TTL
	require.True(t, mr.Exists("two_fa_code:a@b.com"))
	ttl := mr.TTL("two_fa_code:a@b.com")
	assert.Equal(t, twoFACodeTTL, ttl)
}

func TestRedisTwoFACodeStoreGetMissing(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)

	_, _, err := s.GetCode(context.Background(), mustEmail(t, "missing@b.com"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisTwoFACodeStoreAddSupersedes(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)
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
}

func TestRedisTwoFACodeStoreRemove(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))
	require.NoError(t, s.RemoveCode(ctx, email))

	_, _, err := s.GetCode(ctx, email)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.NoError(t, s.RemoveCode(ctx, email))
}

func TestRedisTwoFACodeStoreEntriesExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")
	attemptID, code := newChallenge(t)

	require.NoError(t, s.AddCode(ctx, email, attemptID, code))

	mr.FastForward(twoFACodeTTL + time.Second)

	_, _, err := s.GetCode(ctx, email)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisTwoFACodeStoreCorruptEntry(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisTwoFACodeStore(client)
	ctx := context.Background()
	email := mustEmail(t, "a@b.com")

	require.NoError(t, mr.Set("two_fa_code:a@b.com", "not-json"))

	_, _, err := s.GetCode(ctx, email)
	assert.ErrorIs(t, err, core.ErrUnexpected)
}
