package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// bannedTokenKeyPrefix namespaces denylist entries away from unrelated keys
const bannedTokenKeyPrefix = "banned_token:"

// RedisBannedTokenStore is a Redis implementation of the banned-token
// store. Entries rely on Redis' native key expiry.
type RedisBannedTokenStore struct {
	client redis.UniversalClient
}

// NewRedisBannedTokenStore creates a Redis-backed denylist
func NewRedisBannedTokenStore(client redis.UniversalClient) *RedisBannedTokenStore {
	return &RedisBannedTokenStore{client: client}
}

var _ ports.BannedTokenStore = (*RedisBannedTokenStore)(nil)

// Ban records the token with the given TTL. SET overwrites any existing
// entry, so re-banning is naturally idempotent.
func (s *RedisBannedTokenStore) Ban(ctx context.Context, token core.Secret, ttl time.Duration) error {
	key := bannedTokenKeyPrefix + token.Expose()

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to ban token: %v", core.ErrUnexpected, err)
	}
	return nil
}

// IsBanned reports whether the token key still exists
func (s *RedisBannedTokenStore) IsBanned(ctx context.Context, token core.Secret) (bool, error) {
	key := bannedTokenKeyPrefix + token.Expose()

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to check banned token: %v", core.ErrUnexpected, err)
	}
	return n > 0, nil
}
