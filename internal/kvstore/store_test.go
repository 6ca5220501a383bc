package kvstore

import (
	"context"
	"testing"
	"time"

	"cleanearth/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryStore(t *testing.T) (*MemoryStore, *time.Time) {
	t.Helper()

	s := NewMemoryStore(time.Hour, zap.NewNop())
	t.Cleanup(func() { s.Close() })

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreSetExists(t *testing.T) {
	s, now := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "revoked:abc", "1", time.Minute))

	ok, err := s.Exists(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.Exists(ctx, "revoked:other")
	assert.False(t, ok)

	*now = now.Add(2 * time.Minute)
	ok, _ = s.Exists(ctx, "revoked:abc")
	assert.False(t, ok, "expired keys are not visible")

	assert.Equal(t, 1, s.removeExpired())
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreIncrementWindow(t *testing.T) {
	s, now := newTestMemoryStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := s.Increment(ctx, "rl:login", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 30*time.Second, s.TTL("rl:login"), "window is not extended")

	*now = now.Add(31 * time.Second)
	n, err := s.Increment(ctx, "rl:login", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "counter restarts after the window")
}

func TestMemoryStoreNoTTL(t *testing.T) {
	s, now := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	*now = now.Add(24 * time.Hour)

	ok, _ := s.Exists(ctx, "k")
	assert.True(t, ok)
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := NewRedisStore(config.StoreConfig{
		Provider: "redis",
		RedisURL: "redis://" + mr.Addr(),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, mr
}

func TestRedisStoreSetExists(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "revoked:abc", "7", time.Minute))

	ok, err := s.Exists(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = s.Exists(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreIncrement(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	n, err := s.Increment(ctx, "rl:register", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, mr.TTL("rl:register"))

	mr.FastForward(20 * time.Second)
	n, err = s.Increment(ctx, "rl:register", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 40*time.Second, mr.TTL("rl:register"))

	mr.FastForward(time.Minute)
	n, err = s.Increment(ctx, "rl:register", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStoreIncrementRestoresMissingWindow(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	// counter left behind without an expiry
	require.NoError(t, mr.Set("rl:login", "7"))
	assert.Equal(t, time.Duration(0), mr.TTL("rl:login"))

	n, err := s.Increment(ctx, "rl:login", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Greater(t, mr.TTL("rl:login"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	n, err = s.Increment(ctx, "rl:login", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStoreHealth(t *testing.T) {
	s, mr := newTestRedisStore(t)

	assert.NoError(t, s.Health(context.Background()))

	mr.Close()
	assert.Error(t, s.Health(context.Background()))
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(config.StoreConfig{Provider: "memcached"}, nil)
	assert.Error(t, err)
}
