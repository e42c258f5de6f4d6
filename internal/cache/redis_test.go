package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCacheFromClient(client)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	val, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	assert.Equal(t, time.Minute, mr.TTL("a"))

	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	require.NoError(t, c.Delete(ctx))

	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Second))
	mr.FastForward(2 * time.Second)
	exists, err := c.Exists(ctx, "c")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNamespaceOverRedis(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)
	ns := NewNamespace[cachedUser](UserNamespace, c, 0)

	_, ok, err := ns.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ns.Put(ctx, 7, &cachedUser{ID: 7, Email: "jon@example.com", Password: "secret"}))
	assert.True(t, mr.Exists("userCache::7"))
	assert.Equal(t, DefaultTTL, mr.TTL("userCache::7"))

	got, ok, err := ns.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret", got.Password)

	require.NoError(t, ns.Put(ctx, 8, nil))
	assert.False(t, mr.Exists("userCache::8"))

	require.NoError(t, ns.Put(ctx, 8, &cachedUser{ID: 8}))
	require.NoError(t, ns.Evict(ctx, 7, 8))
	assert.Empty(t, mr.Keys())
}

func TestRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache("redis://127.0.0.1:1/0")
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestNewRedisCacheFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.True(t, mr.Exists("k"))

	c, err = NewRedisCache(mr.Addr())
	require.NoError(t, err)
	exists, err := c.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, exists)
}
