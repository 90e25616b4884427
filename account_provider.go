package workhive

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
)

// AccountTracker is the slice of the accounts store the provider needs
type AccountTracker interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	TrackAttemptedLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLogin(ctx context.Context, account *Account) error
}

// AccountProvider resolves identities against the accounts store
type AccountProvider struct {
	store  AccountTracker
	logger Logger
}

// MaxLoginAttempts is the maximum number of attempts an account gets
// inside the cool-down period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// NewAccountProvider will create a new AccountProvider
func NewAccountProvider(store AccountTracker) *AccountProvider {
	return &AccountProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// VerifyIdentity finds the account, compares the password, and returns the
// identity. An unknown email and a wrong password both come back as
// ErrInvalidCredentials: the two cases are indistinguishable by contract so
// responses cannot be used to enumerate accounts.
func (p AccountProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	account, err := p.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a compare so an unknown email takes as long as a wrong password
			_ = ComparePasswordAndHash(password, dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if account.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*account.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			account.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if account.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if err2 := p.store.TrackAttemptedLogin(ctx, account); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrInvalidCredentials
	}

	// Best effort: the caller already proved identity, a failed timestamp
	// write must not abort the login.
	if err := p.store.TrackSuccessfulLogin(ctx, account); err != nil {
		p.logger.Error("failed to track successful login", "error", err)
	}

	return accountIdentity{account: account}, nil
}

// FindIdentityByID resolves an account id to an identity, used when a refresh
// token is redeemed
func (p AccountProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	account, err := p.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account == nil {
		return nil, ErrIdentityNotFound
	}

	return accountIdentity{account: account}, nil
}

var _ IdentityProvider = (*AccountProvider)(nil)

// dummyPasswordHash is compared against when no account matches, keeping the
// unknown-email path on the same bcrypt cost curve as the known-email path
var dummyPasswordHash = sync.OnceValue(RandomPasswordHash)

// NormalizeEmail lower-cases and trims an email so lookups are
// case-insensitive. Stored emails are normalized the same way at registration.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type accountIdentity struct {
	account *Account
}

func (a accountIdentity) ID() string {
	return a.account.ID.String()
}

func (a accountIdentity) Email() string {
	return a.account.Email
}

func (a accountIdentity) Role() string {
	return string(a.account.Role)
}

// AccountRecord exposes the underlying record so Login can return the
// sanitized account without another read
func (a accountIdentity) AccountRecord() *Account {
	return a.account
}

var _ Identity = accountIdentity{}
