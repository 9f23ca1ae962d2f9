package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestStores(t *testing.T) {
	redisStore, _ := setupTestRedis(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "k", `["a","b"]`, 0))
			value, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `["a","b"]`, value)

			require.NoError(t, store.Set(ctx, "k", "es", 0))
			value, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "es", value)

			require.NoError(t, store.Delete(ctx, "k"))
			_, err = store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, store.Delete(ctx, "never-set"))
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "revoked:abc", "1", time.Minute))

	_, err := store.Get(ctx, "revoked:abc")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "revoked:abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "revoked:abc", "1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "revoked:abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisitorKey(t *testing.T) {
	assert.Equal(t, "visitor:v1:selectedPhotos", VisitorKey("v1", "selectedPhotos"))
}
