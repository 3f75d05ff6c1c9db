package hasher

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

const algorithmID = "argon2id"

// Config holds Argon2id cost parameters. Hashes self-describe their
// parameters, so these can be raised later without invalidating stored
// hashes.
type Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns moderate interactive-login parameters
func DefaultConfig() Config {
	return Config{
		Memory:      19 * 1024,
		Time:        2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 implements ports.PasswordHasher using Argon2id in PHC string
// format. A weighted semaphore bounds concurrent derivations to the number
// of CPUs so hashing never monopolizes the scheduler.
type Argon2 struct {
	cfg Config
	sem *semaphore.Weighted
}

// NewArgon2 validates the parameters and creates a hasher
func NewArgon2(cfg Config) (*Argon2, error) {
	if cfg.Memory < 8*1024 {
		return nil, errors.New("argon2: memory must be >= 8192 KiB")
	}
	if cfg.Time < 1 {
		return nil, errors.New("argon2: time cost must be >= 1")
	}
	if cfg.Parallelism < 1 {
		return nil, errors.New("argon2: parallelism must be >= 1")
	}
	if cfg.SaltLength < 16 {
		return nil, errors.New("argon2: salt length must be >= 16")
	}
	if cfg.KeyLength < 16 {
		return nil, errors.New("argon2: key length must be >= 16")
	}

	return &Argon2{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}, nil
}

var _ ports.PasswordHasher = (*Argon2)(nil)

// Hash derives an encoded hash with a fresh random salt
func (a *Argon2) Hash(ctx context.Context, password core.Password) (string, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: hashing slot: %v", core.ErrUnexpected, err)
	}
	defer a.sem.Release(1)

	salt := make([]byte, a.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: failed to generate salt: %v", core.ErrUnexpected, err)
	}

	key := argon2.IDKey(
		[]byte(password.Secret().Expose()),
		salt,
		a.cfg.Time,
		a.cfg.Memory,
		a.cfg.Parallelism,
		a.cfg.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.cfg.Memory,
		a.cfg.Time,
		a.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash with the parameters embedded in encodedHash
// and compares in constant time. A malformed stored hash is an error.
func (a *Argon2) Verify(ctx context.Context, encodedHash string, candidate core.Password) (bool, error) {
	memory, time, parallelism, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrUnexpected, err)
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("%w: hashing slot: %v", core.ErrUnexpected, err)
	}
	defer a.sem.Release(1)

	computed := argon2.IDKey(
		[]byte(candidate.Secret().Expose()),
		salt,
		time,
		memory,
		parallelism,
		uint32(len(key)),
	)

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func decodeHash(encoded string) (memory, time uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return 0, 0, 0, nil, nil, errors.New("malformed password hash")
	}
	if parts[1] != algorithmID {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported hash algorithm %q", parts[1])
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, errors.New("malformed hash version")
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, errors.New("malformed hash parameters")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, errors.New("malformed hash salt")
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, errors.New("malformed hash key")
	}

	return memory, time, parallelism, salt, key, nil
}
