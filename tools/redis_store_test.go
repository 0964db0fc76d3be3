package tools

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	config := DefaultRedisStoreConfig()
	config.Addr = mr.Addr()
	store, err := NewRedisStore(config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	store.Set(ctx, "k1", "v1", time.Minute)

	value, ok := store.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "v1", value)

	_, ok = store.Get(ctx, "absent")
	assert.False(t, ok)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	store.Set(ctx, "k1", "v1", time.Minute)

	mr.FastForward(61 * time.Second)

	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok, "expired entry is absent")
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	store.Set(ctx, "k1", "v1", time.Minute)
	store.Delete(ctx, "k1")

	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestRedisStore_ClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	store.Set(ctx, "k1", "v1", time.Minute)
	store.Set(ctx, "k2", "v2", time.Minute)
	require.NoError(t, mr.Set("unrelated", "keep"))

	store.Clear(ctx)

	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "k2")
	assert.False(t, ok)

	kept, err := mr.Get("unrelated")
	require.NoError(t, err)
	assert.Equal(t, "keep", kept)
}

func TestRedisStore_DialFailure(t *testing.T) {
	config := DefaultRedisStoreConfig()
	config.Addr = "127.0.0.1:1" // nothing listens here

	_, err := NewRedisStore(config, nil)
	assert.Error(t, err)
}
