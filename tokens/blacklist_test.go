package tokens

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"empowerment/models"
	"empowerment/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bl := NewRedisBlacklist(client)
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	won, err := bl.Revoke(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, won)
	won, err = bl.Revoke(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, won, "second revoke loses")
	revoked, err = bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("trl:jti:abc"))

	mr.FastForward(2 * time.Minute)
	revoked, err = bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked, "entry expires with the token")
}

func TestRedisBlacklist_IgnoresEmptyAndExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bl := NewRedisBlacklist(client)

	_, err := bl.Revoke(context.Background(), "", time.Minute)
	require.NoError(t, err)
	_, err = bl.Revoke(context.Background(), "old", 0)
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
}

func TestDBBlacklist(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &models.RevokedToken{})

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bl := NewDBBlacklist(db)
	bl.now = func() time.Time { return clock }
	ctx := context.Background()

	won, err := bl.Revoke(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, won)
	won, err = bl.Revoke(ctx, "jti-1", time.Hour)
	require.NoError(t, err, "revoking twice is harmless")
	assert.False(t, won)

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	clock = clock.Add(2 * time.Hour)
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	purged, err := bl.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestDBBlacklist_ConcurrentRevokeHasOneWinner(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &models.RevokedToken{})
	bl := NewDBBlacklist(db)

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := bl.Revoke(context.Background(), "jti-race", time.Hour)
			assert.NoError(t, err)
			if won {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}
