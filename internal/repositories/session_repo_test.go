package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/token-launcher/backend/internal/models"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:12345", SessionKey(12345))
}

func TestSessionRepoLifecycle(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionRepo(rdb, time.Hour)
	ctx := context.Background()

	_, err := repo.Get(ctx, 1)
	require.ErrorIs(t, err, models.ErrSessionNotFound)

	s, err := repo.Create(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Unset, s.Name)

	s.Name = "Foo"
	s.BuyTax.Burn = "2"
	s.CurrentState = models.AwaitTokenSymbol
	s.SetMessageID(models.SlotStandardParams, 99)
	require.NoError(t, repo.Save(ctx, 1, s))

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	ttl, err := rdb.TTL(ctx, SessionKey(1)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	ok, err := repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, 1))
	ok, err = repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepoIsolation(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionRepo(rdb, 0)
	ctx := context.Background()

	a, err := repo.Create(ctx, 10)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 20)
	require.NoError(t, err)

	a.Symbol = "AAA"
	require.NoError(t, repo.Save(ctx, 10, a))

	b, err := repo.Get(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, models.Unset, b.Symbol)

	ttl, err := rdb.TTL(ctx, SessionKey(20)).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "no expiry when ttl is disabled")
}

func TestSessionRepoCorruptDocument(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionRepo(rdb, 0)
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, SessionKey(5), "{not json", 0).Err())
	_, err := repo.Get(ctx, 5)
	require.Error(t, err)
}
