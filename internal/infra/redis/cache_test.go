package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestCache_SetGet(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewCache(client, zap.NewNop(), "test")

	ctx := context.Background()

	err := cache.Set(ctx, "post:1", []byte(`{"id":1}`), time.Hour)
	require.NoError(t, err)

	data, err := cache.Get(ctx, "post:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), data)
}

func TestCache_Get_Missing(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewCache(client, zap.NewNop(), "test")

	data, err := cache.Get(context.Background(), "post:42")
	require.NoError(t, err)
	assert.Nil(t, data, "missing key should return nil, not error")
}

func TestCache_Exists_DoesNotRefreshTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewCache(client, zap.NewNop(), "test")

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "post:1", []byte("x"), time.Minute))

	ok, err := cache.Exists(ctx, "post:1")
	require.NoError(t, err)
	assert.True(t, ok)

	// The key must still expire on its original schedule.
	mr.FastForward(time.Minute + time.Second)

	ok, err = cache.Exists(ctx, "post:1")
	require.NoError(t, err)
	assert.False(t, ok, "key should have expired despite the Exists check")
}

func TestCache_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewCache(client, zap.NewNop(), "test")

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "post:1", []byte("x"), time.Hour))
	require.NoError(t, cache.Delete(ctx, "post:1"))

	data, err := cache.Get(ctx, "post:1")
	require.NoError(t, err)
	assert.Nil(t, data)

	// Deleting a missing key is a no-op.
	require.NoError(t, cache.Delete(ctx, "post:1"))
}

func TestCache_KeyPrefixIsolation(t *testing.T) {
	_, client := setupTestRedis(t)
	cacheA := NewCache(client, zap.NewNop(), "a")
	cacheB := NewCache(client, zap.NewNop(), "b")

	ctx := context.Background()
	require.NoError(t, cacheA.Set(ctx, "post:1", []byte("a"), time.Hour))

	data, err := cacheB.Get(ctx, "post:1")
	require.NoError(t, err)
	assert.Nil(t, data, "prefixes should namespace keys")
}
