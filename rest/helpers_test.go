package rest_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	workhive "github.com/workhive/workhive"
)

type testLogger struct{}

func (testLogger) Debug(format string, args ...any) {}
func (testLogger) Info(format string, args ...any)  {}
func (testLogger) Warn(format string, args ...any)  {}
func (testLogger) Error(format string, args ...any) {}

// MockAuthenticator implements workhive.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*workhive.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workhive.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) ClaimsFromToken(token string) (workhive.AuthClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(workhive.AuthClaims), args.Error(1)
}

const (
	sqliteCreateAccounts = `CREATE TABLE accounts (
    id TEXT NOT NULL PRIMARY KEY,
    account_role TEXT NOT NULL DEFAULT 'candidate',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT,
    headline TEXT,
    company TEXT,
    password_hash TEXT,
    login_attempts INTEGER DEFAULT 0,
    login_attempt_at TIMESTAMP,
    loggedin_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
);`

	sqliteCreateNotifications = `CREATE TABLE notifications (
    id TEXT NOT NULL PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts (id),
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    body TEXT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    read_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
)

func setupTestRepo(t *testing.T) (workhive.RepositoryManager, *bun.DB) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateAccounts)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateNotifications)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return workhive.NewRepositoryManager(bunDB), bunDB
}

func seedAccount(t *testing.T, repo workhive.RepositoryManager, email string) *workhive.Account {
	t.Helper()

	account, err := repo.Accounts().Register(context.Background(), &workhive.Account{
		FirstName:    "Test",
		LastName:     "Account",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)

	return account
}

func seedNotification(t *testing.T, db *bun.DB, accountID uuid.UUID, read bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now()

	record := &workhive.Notification{
		ID:        id,
		AccountID: accountID,
		Kind:      workhive.NotificationNewMessage,
		Title:     "You have a new message",
		Read:      read,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	if read {
		record.ReadAt = &now
	}

	_, err := db.NewInsert().Model(record).Exec(context.Background())
	require.NoError(t, err)

	return id
}

func newTestTokenService() workhive.TokenService {
	return workhive.NewTokenService(
		[]byte("rest-test-signing-key"),
		15*time.Minute,
		24*time.Hour,
		"workhive-test",
		[]string{"workhive-clients"},
		nil,
	)
}

type accountIdentity struct {
	account *workhive.Account
}

func (a accountIdentity) ID() string    { return a.account.ID.String() }
func (a accountIdentity) Email() string { return a.account.Email }
func (a accountIdentity) Role() string  { return string(a.account.Role) }
