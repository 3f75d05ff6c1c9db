package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// twoFACodeKeyPrefix namespaces challenge entries away from unrelated keys
const twoFACodeKeyPrefix = "two_fa_code:"

// twoFATuple is the serialized (attempt id, code) pair stored per email
type twoFATuple struct {
	LoginAttemptID string `json:"login_attempt_id"`
	Code           string `json:"code"`
}

// RedisTwoFACodeStore is a Redis implementation of the second-factor
// challenge store. SET with EX gives both overwrite-on-reissue and native
// TTL expiry.
type RedisTwoFACodeStore struct {
	client redis.UniversalClient
}

// NewRedisTwoFACodeStore creates a Redis-backed challenge store
func NewRedisTwoFACodeStore(client redis.UniversalClient) *RedisTwoFACodeStore {
	return &RedisTwoFACodeStore{client: client}
}

var _ ports.TwoFACodeStore = (*RedisTwoFACodeStore)(nil)

// AddCode stores the challenge pair under the email's key, superseding any
// previous challenge
func (s *RedisTwoFACodeStore) AddCode(ctx context.Context, email core.Email, attemptID core.LoginAttemptID, code core.TwoFACode) error {
	payload, err := json.Marshal(twoFATuple{
		LoginAttemptID: attemptID.Secret().Expose(),
		Code:           code.Secret().Expose(),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to serialize 2FA tuple: %v", core.ErrUnexpected, err)
	}

	key := twoFACodeKeyPrefix + email.String()
	if err := s.client.Set(ctx, key, payload, twoFACodeTTL).Err(); err != nil {
		return fmt.Errorf("%w: failed to store 2FA code: %v", core.ErrUnexpected, err)
	}
	return nil
}

// GetCode returns the live challenge pair for email
func (s *RedisTwoFACodeStore) GetCode(ctx context.Context, email core.Email) (core.LoginAttemptID, core.TwoFACode, error) {
	key := twoFACodeKeyPrefix + email.String()

	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.LoginAttemptID{}, core.TwoFACode{}, core.ErrNotFound
		}
		return core.LoginAttemptID{}, core.TwoFACode{}, fmt.Errorf("%w: failed to read 2FA code: %v", core.ErrUnexpected, err)
	}

	var tuple twoFATuple
	if err := json.Unmarshal([]byte(raw), &tuple); err != nil {
		return core.LoginAttemptID{}, core.TwoFACode{}, fmt.Errorf("%w: failed to deserialize 2FA tuple: %v", core.ErrUnexpected, err)
	}

	attemptID, err := core.ParseLoginAttemptID(core.NewSecret(tuple.LoginAttemptID))
	if err != nil {
		return core.LoginAttemptID{}, core.TwoFACode{}, fmt.Errorf("%w: stored attempt id is invalid: %v", core.ErrUnexpected, err)
	}
	code, err := core.ParseTwoFACode(core.NewSecret(tuple.Code))
	if err != nil {
		return core.LoginAttemptID{}, core.TwoFACode{}, fmt.Errorf("%w: stored 2FA code is invalid: %v", core.ErrUnexpected, err)
	}

	return attemptID, code, nil
}

// RemoveCode deletes the challenge for email; DEL on a missing key is a
// no-op, not an error
func (s *RedisTwoFACodeStore) RemoveCode(ctx context.Context, email core.Email) error {
	key := twoFACodeKeyPrefix + email.String()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: failed to remove 2FA code: %v", core.ErrUnexpected, err)
	}
	return nil
}
