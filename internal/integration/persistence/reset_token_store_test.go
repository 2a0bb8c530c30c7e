package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenStore_GrantFindRedeem(t *testing.T) {
	ctx := context.Background()
	store := NewResetTokenStore(newTestDB(t))
	userID := uuid.New()

	require.NoError(t, store.Grant(ctx, "reset", userID, "ada@example.com", time.Now().Add(time.Hour)))

	grant, err := store.Find(ctx, "reset")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, userID, grant.UserID)
	assert.Equal(t, "ada@example.com", grant.Email)
	assert.Nil(t, grant.RedeemedAt)

	redeemed, err := store.Redeem(ctx, "reset")
	require.NoError(t, err)
	assert.True(t, redeemed)

	redeemed, err = store.Redeem(ctx, "reset")
	require.NoError(t, err)
	assert.False(t, redeemed)

	grant, err = store.Find(ctx, "reset")
	require.NoError(t, err)
	assert.Nil(t, grant)

	grant, err = store.Find(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, grant)
}

func TestResetTokenStore_GrantSupersedesEarlierLinks(t *testing.T) {
	ctx := context.Background()
	store := NewResetTokenStore(newTestDB(t))
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, store.Grant(ctx, "first", userID, "ada@example.com", expires))
	require.NoError(t, store.Grant(ctx, "second", userID, "ada@example.com", expires))
	require.NoError(t, store.Grant(ctx, "other-user", uuid.New(), "bob@example.com", expires))

	grant, err := store.Find(ctx, "first")
	require.NoError(t, err)
	assert.Nil(t, grant)

	grant, err = store.Find(ctx, "second")
	require.NoError(t, err)
	assert.NotNil(t, grant)

	grant, err = store.Find(ctx, "other-user")
	require.NoError(t, err)
	assert.NotNil(t, grant)
}

func TestResetTokenStore_FindKeepsExpiredGrants(t *testing.T) {
	ctx := context.Background()
	store := NewResetTokenStore(newTestDB(t))

	require.NoError(t, store.Grant(ctx, "old", uuid.New(), "ada@example.com", time.Now().Add(-time.Minute)))

	grant, err := store.Find(ctx, "old")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.True(t, grant.ExpiresAt.Before(time.Now().UTC()))
}

func TestResetTokenStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewResetTokenStore(newTestDB(t))
	now := time.Now().UTC()

	require.NoError(t, store.Grant(ctx, "stale", uuid.New(), "ada@example.com", now.Add(-2*time.Hour)))
	require.NoError(t, store.Grant(ctx, "live", uuid.New(), "bob@example.com", now.Add(time.Hour)))

	n, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	grant, err := store.Find(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, grant)
}
