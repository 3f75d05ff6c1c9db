package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/ports"
)

// minBanTTL floors the denylist TTL so a token whose expiry is imminent
// still lands on the list despite clock skew between instances
const minBanTTL = time.Minute

// AuthService orchestrates the login, second-factor and logout protocols
// over the store, tokenizer and hasher ports. It depends only on the
// interfaces, never on a concrete backend.
type AuthService struct {
	users        ports.UserStore
	bannedTokens ports.BannedTokenStore
	twoFACodes   ports.TwoFACodeStore
	tokenizer    ports.Tokenizer
	hasher       ports.PasswordHasher
	events       ports.EventPublisher
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users ports.UserStore,
	bannedTokens ports.BannedTokenStore,
	twoFACodes ports.TwoFACodeStore,
	tokenizer ports.Tokenizer,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		bannedTokens: bannedTokens,
		twoFACodes:   twoFACodes,
		tokenizer:    tokenizer,
		hasher:       hasher,
		events:       events,
		logger:       logger,
	}
}

// LoginResult is the outcome of a successful credential check. Either a
// session token was issued, or a second-factor challenge is pending and
// only the attempt id is handed back; the code travels out-of-band.
type LoginResult struct {
	Token         core.Secret
	TwoFARequired bool
	AttemptID     core.LoginAttemptID
}

// Signup registers a new identity. Input is validated before any store is
// touched; a taken email fails with core.ErrAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, email, password string, requiresTwoFA bool) error {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return err
	}
	pass, err := core.ParsePassword(core.NewSecret(password))
	if err != nil {
		return err
	}

	if _, err := s.users.Get(ctx, addr); err == nil {
		return core.ErrAlreadyExists
	} else if !errors.Is(err, core.ErrNotFound) {
		return unexpected(err)
	}

	hash, err := s.hasher.Hash(ctx, pass)
	if err != nil {
		return unexpected(err)
	}

	user := core.User{
		Email:         addr,
		PasswordHash:  hash,
		RequiresTwoFA: requiresTwoFA,
	}

	// The store serializes concurrent adds for the same email; losing the
	// race here is the same outcome as the pre-check above.
	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			return core.ErrAlreadyExists
		}
		return unexpected(err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Bool("requires_2fa", requiresTwoFA))
	return nil
}

// Login checks credentials and either issues a session token or opens a
// second-factor challenge. A missing identity and a wrong password are
// externally indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return nil, err
	}
	pass, err := core.ParsePassword(core.NewSecret(password))
	if err != nil {
		return nil, err
	}

	if err := s.users.Validate(ctx, addr, pass); err != nil {
		if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrInvalidCredentials) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, unexpected(err)
	}

	user, err := s.users.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, unexpected(err)
	}

	if !user.RequiresTwoFA {
		token, err := s.tokenizer.Issue(user)
		if err != nil {
			return nil, unexpected(err)
		}
		return &LoginResult{Token: token}, nil
	}

	attemptID := core.NewLoginAttemptID()
	code, err := core.NewTwoFACode()
	if err != nil {
		return nil, unexpected(err)
	}

	// Overwrite semantics: a fresh login supersedes any outstanding
	// challenge for this identity.
	if err := s.twoFACodes.AddCode(ctx, addr, attemptID, code); err != nil {
		return nil, unexpected(err)
	}

	s.logger.InfoContext(ctx, "second-factor challenge issued")
	return &LoginResult{TwoFARequired: true, AttemptID: attemptID}, nil
}

// VerifyTwoFA consumes the outstanding challenge and issues a session
// token. A missing challenge and a mismatched pair produce the same error
// so callers cannot probe which part failed.
func (s *AuthService) VerifyTwoFA(ctx context.Context, email, attemptID, code string) (core.Secret, error) {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return core.Secret{}, err
	}
	claimedID, err := core.ParseLoginAttemptID(core.NewSecret(attemptID))
	if err != nil {
		return core.Secret{}, err
	}
	claimedCode, err := core.ParseTwoFACode(core.NewSecret(code))
	if err != nil {
		return core.Secret{}, err
	}

	storedID, storedCode, err := s.twoFACodes.GetCode(ctx, addr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Secret{}, core.ErrInvalidCredentials
		}
		return core.Secret{}, unexpected(err)
	}

	// Evaluate both comparisons before branching; each is constant-time.
	idMatch := storedID.Equal(claimedID)
	codeMatch := storedCode.Equal(claimedCode)
	if !idMatch || !codeMatch {
		return core.Secret{}, core.ErrInvalidCredentials
	}

	// Consume the challenge before issuing the token so the same code can
	// never verify twice, even inside its TTL window.
	if err := s.twoFACodes.RemoveCode(ctx, addr); err != nil {
		return core.Secret{}, unexpected(err)
	}

	user, err := s.users.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Secret{}, core.ErrInvalidCredentials
		}
		return core.Secret{}, unexpected(err)
	}

	token, err := s.tokenizer.Issue(user)
	if err != nil {
		return core.Secret{}, unexpected(err)
	}

	s.logger.InfoContext(ctx, "second-factor challenge verified")
	return token, nil
}

// Logout bans the token for the remainder of its validity window. Banning
// an already-banned token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	secret := core.NewSecret(token)

	session, err := s.tokenizer.Verify(secret)
	if err != nil {
		return core.ErrInvalidToken
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl < minBanTTL {
		ttl = minBanTTL
	}

	if err := s.bannedTokens.Ban(ctx, secret, ttl); err != nil {
		return unexpected(err)
	}

	// The token is already on the denylist; a publish failure must not
	// undo the logout.
	if err := s.events.PublishLogout(ctx, session.Email); err != nil {
		s.logger.WarnContext(ctx, "failed to publish logout event", slog.String("error", err.Error()))
	}

	return nil
}

// ValidateToken reports whether a token is usable: codec-valid and not on
// the denylist
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.Session, error) {
	secret := core.NewSecret(token)

	session, err := s.tokenizer.Verify(secret)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	banned, err := s.bannedTokens.IsBanned(ctx, secret)
	if err != nil {
		return nil, unexpected(err)
	}
	if banned {
		return nil, core.ErrInvalidToken
	}

	return session, nil
}

// unexpected folds infrastructure failures into the taxonomy without
// leaking backend detail through repeated wrapping
func unexpected(err error) error {
	if errors.Is(err, core.ErrUnexpected) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrUnexpected, err)
}
