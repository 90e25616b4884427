package workhive_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	workhive "github.com/workhive/workhive"
)

func TestRegisterAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	account, err := repo.Register(ctx, &workhive.Account{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "  Ada@Example.COM ",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, workhive.RoleCandidate, account.Role)
	assert.Equal(t, "ada@example.com", account.Email)
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	seedAccount(t, repo, "taken@example.com")

	_, err := repo.Register(ctx, &workhive.Account{
		FirstName:    "Second",
		LastName:     "Account",
		Email:        "taken@example.com",
		PasswordHash: "hash",
	})
	assert.Error(t, err)
}

func TestGetByEmailNormalizes(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	seeded := seedAccount(t, repo, "dev@example.com")

	found, err := repo.GetByEmail(ctx, "  DEV@example.com ")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
}

func TestGetByEmailNotFound(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	_, err := repo.GetByEmail(ctx, "ghost@example.com")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	seeded := seedAccount(t, repo, "dev@example.com")

	found, err := repo.FindByID(ctx, seeded.ID.String())
	require.NoError(t, err)
	assert.Equal(t, seeded.Email, found.Email)

	// a non-uuid id behaves like a missing record
	_, err = repo.FindByID(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTrackAttemptedLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	account := seedAccount(t, repo, "dev@example.com")

	require.NoError(t, repo.TrackAttemptedLogin(ctx, account))

	reloaded, err := repo.FindByID(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.LoginAttempts)
	require.NotNil(t, reloaded.LoginAttemptAt)

	// the counter increments off the caller's view of the record
	require.NoError(t, repo.TrackAttemptedLogin(ctx, reloaded))

	reloaded, err = repo.FindByID(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.LoginAttempts)
}

func TestTrackSuccessfulLoginResetsCounters(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := workhive.NewAccountsRepository(db)

	account := seedAccount(t, repo, "dev@example.com")

	require.NoError(t, repo.TrackAttemptedLogin(ctx, account))
	require.NoError(t, repo.TrackSuccessfulLogin(ctx, account))

	reloaded, err := repo.FindByID(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.LoginAttempts)
	assert.Nil(t, reloaded.LoginAttemptAt)
	require.NotNil(t, reloaded.LoggedInAt)
}

func TestRepositoryManagerValidate(t *testing.T) {
	db := setupTestDB(t)
	repo := workhive.NewRepositoryManager(db)

	assert.NoError(t, repo.Validate())
	assert.NotNil(t, repo.Accounts())
	assert.NotNil(t, repo.Notifications())
}
