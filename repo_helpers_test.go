package workhive_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	workhive "github.com/workhive/workhive"
)

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

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	_, err = bunDB.Exec(sqliteCreateAccounts)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateNotifications)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return bunDB
}

func seedAccount(t *testing.T, repo workhive.Accounts, email string) *workhive.Account {
	t.Helper()

	account, err := repo.Register(context.Background(), &workhive.Account{
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
