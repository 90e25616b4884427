package workhive_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	workhive "github.com/workhive/workhive"
)

// TestIdentity implements workhive.Identity
type TestIdentity struct {
	id    string
	email string
	role  string
}

func (t TestIdentity) ID() string    { return t.id }
func (t TestIdentity) Email() string { return t.email }
func (t TestIdentity) Role() string  { return t.role }

// MockIdentityProvider implements workhive.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (workhive.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(workhive.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (workhive.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(workhive.Identity), args.Error(1)
}

// MockAccountTracker implements workhive.AccountTracker
type MockAccountTracker struct {
	mock.Mock
}

func (m *MockAccountTracker) GetByEmail(ctx context.Context, email string) (*workhive.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workhive.Account), args.Error(1)
}

func (m *MockAccountTracker) FindByID(ctx context.Context, id string) (*workhive.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workhive.Account), args.Error(1)
}

func (m *MockAccountTracker) TrackAttemptedLogin(ctx context.Context, account *workhive.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountTracker) TrackSuccessfulLogin(ctx context.Context, account *workhive.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// mockConfig implements workhive.Config with test-friendly values
type mockConfig struct {
	signingKey  string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	issuer      string
	audience    []string
	contextKey  string
	authScheme  string
	tokenLookup string
}

func newMockConfig() mockConfig {
	return mockConfig{
		signingKey:  "test-signing-key-7f3a",
		accessTTL:   15 * time.Minute,
		refreshTTL:  7 * 24 * time.Hour,
		issuer:      "workhive-test",
		audience:    []string{"workhive-clients"},
		contextKey:  "user",
		authScheme:  "Bearer",
		tokenLookup: "header:Authorization",
	}
}

func (c mockConfig) GetSigningKey() string             { return c.signingKey }
func (c mockConfig) GetAccessTokenTTL() time.Duration  { return c.accessTTL }
func (c mockConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c mockConfig) GetIssuer() string                 { return c.issuer }
func (c mockConfig) GetAudience() []string             { return c.audience }
func (c mockConfig) GetContextKey() string             { return c.contextKey }
func (c mockConfig) GetAuthScheme() string             { return c.authScheme }
func (c mockConfig) GetTokenLookup() string            { return c.tokenLookup }

// capturingSink collects activity events for assertions
type capturingSink struct {
	events []workhive.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event workhive.ActivityEvent) error {
	c.events = append(c.events, event)
	return nil
}
