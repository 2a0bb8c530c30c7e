package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := entity.NewUser("Ada@Example.com", "Ada Lovelace", "hash", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Ada Lovelace", got.Name)

	got, err = repo.FindByEmail(ctx, " ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	taken, err := repo.EmailTaken(ctx, "ada@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, taken)

	changedAt := time.Now().UTC().Add(time.Minute)
	require.NoError(t, repo.SetPassword(ctx, user.ID, "new-hash", changedAt))
	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.WithinDuration(t, changedAt, got.UpdatedAt, time.Second)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)

	taken, err = repo.EmailTaken(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_DeleteRemovesTokens(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	sessions := NewRefreshTokenStore(db)
	resets := NewResetTokenStore(db)

	user := entity.NewUser("ada@example.com", "Ada", "hash", time.Now())
	other := entity.NewUser("bob@example.com", "Bob", "hash", time.Now())
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Create(ctx, other))

	expires := time.Now().Add(time.Hour)
	require.NoError(t, sessions.Record(ctx, uuid.New(), "ada-refresh", user.ID, false, expires))
	require.NoError(t, sessions.Record(ctx, uuid.New(), "bob-refresh", other.ID, false, expires))
	require.NoError(t, resets.Grant(ctx, "ada-reset", user.ID, user.Email, expires))

	require.NoError(t, repo.Delete(ctx, user.ID))

	row, err := sessions.Lookup(ctx, "ada-refresh")
	require.NoError(t, err)
	assert.Nil(t, row)
	grant, err := resets.Find(ctx, "ada-reset")
	require.NoError(t, err)
	assert.Nil(t, grant)

	row, err = sessions.Lookup(ctx, "bob-refresh")
	require.NoError(t, err)
	assert.NotNil(t, row)
}

func TestUserRepository_SetPasswordUnknownUser(t *testing.T) {
	err := NewUserRepository(newTestDB(t)).SetPassword(context.Background(), uuid.New(), "hash", time.Now())
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, entity.NewUser("ada@example.com", "Ada", "hash", time.Now())))

	err := repo.Create(ctx, entity.NewUser("ADA@example.com", "Impostor", "hash", time.Now()))
	assert.ErrorIs(t, err, domainerror.ErrEmailAlreadyExists)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}
