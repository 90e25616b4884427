package workhive

import (
	"context"
	"reflect"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther composes the credential check and the token issuer into the login
// flow the REST layer exposes.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
	activity     ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetAccessTokenTTL(),
		opts.GetRefreshTokenTTL(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
		activity:     noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink wires an audit sink for login and refresh events
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activity = normalizeActivitySink(sink)
	return s
}

// WithTokenService overrides the token service, mostly for tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// accountCarrier lets an identity expose the full account record so Login can
// return it without a second store round trip
type accountCarrier interface {
	AccountRecord() *Account
}

// Login verifies the credential pair, stamps the last-login timestamp (best
// effort, inside the provider), and mints the access/refresh token pair. The
// returned account never carries the credential hash.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Metadata:  map[string]any{"email": NormalizeEmail(email)},
		})
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokenService.IssueAccessToken(identity)
	if err != nil {
		s.logger.Error("Login failed to issue access token", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue access token")
	}

	refresh, err := s.tokenService.IssueRefreshToken(identity)
	if err != nil {
		s.logger.Error("Login failed to issue refresh token", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue refresh token")
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		AccountID: identity.ID(),
	})

	return &LoginResult{
		Account: accountFromIdentity(identity),
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}, nil
}

// Refresh redeems a refresh token for a new access token. The account is
// re-read from the store so tokens held for deleted accounts stop working
// at redemption time, even though access tokens stay stateless.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenService.ValidateUse(refreshToken, TokenUseRefresh)
	if err != nil {
		s.logger.Error("Refresh token validation failed", "error", err)
		return "", err
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.AccountID())
	if err != nil {
		s.logger.Error("Refresh identity lookup failed", "error", err)
		if errors.IsNotFound(err) {
			return "", ErrTokenMalformed
		}
		return "", err
	}

	access, err := s.tokenService.IssueAccessToken(identity)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue access token")
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventTokenRefreshed,
		AccountID: identity.ID(),
	})

	return access, nil
}

// ClaimsFromToken validates a raw access token and returns its claims
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.ValidateUse(raw, TokenUseAccess)
	if err != nil {
		s.logger.Error("ClaimsFromToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}

func (s *Auther) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record failed", "error", err, "event", string(event.EventType))
	}
}

var _ Authenticator = (*Auther)(nil)

func accountFromIdentity(identity Identity) *Account {
	if carrier, ok := identity.(accountCarrier); ok {
		if record := carrier.AccountRecord(); record != nil {
			return record.Sanitized()
		}
	}

	account := &Account{
		Email: identity.Email(),
		Role:  AccountRole(identity.Role()),
	}
	if id, err := parseAccountID(identity.ID()); err == nil {
		account.ID = id
	}
	return account
}
