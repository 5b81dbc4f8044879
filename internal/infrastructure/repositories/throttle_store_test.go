package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThrottleStore(t *testing.T) (*miniredis.Miniredis, *ThrottleStoreImpl) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewThrottleStore(client).(*ThrottleStoreImpl)
}

func TestThrottleAllowsUpToLimit(t *testing.T) {
	_, store := newThrottleStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, wait, err := store.Allow(ctx, "login:joe@example.com", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
		assert.Equal(t, int64(0), wait)
	}
}

func TestThrottleBlocksOverLimit(t *testing.T) {
	_, store := newThrottleStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := store.Allow(ctx, "login:joe@example.com", 3, time.Minute)
		require.NoError(t, err)
	}

	ok, wait, err := store.Allow(ctx, "login:joe@example.com", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, wait, int64(0))
	assert.LessOrEqual(t, wait, int64(60))
}

func TestThrottleWindowResets(t *testing.T) {
	mr, store := newThrottleStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := store.Allow(ctx, "reset:joe@example.com", 1, time.Minute)
		require.NoError(t, err)
	}

	ok, _, err := store.Allow(ctx, "reset:joe@example.com", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(61 * time.Second)

	ok, wait, err := store.Allow(ctx, "reset:joe@example.com", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), wait)
}

func TestThrottleKeysAreIndependent(t *testing.T) {
	_, store := newThrottleStore(t)
	ctx := context.Background()

	_, _, err := store.Allow(ctx, "login:a@example.com", 1, time.Minute)
	require.NoError(t, err)
	ok, _, err := store.Allow(ctx, "login:a@example.com", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	ok, _, err = store.Allow(ctx, "login:b@example.com", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
