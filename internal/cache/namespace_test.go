package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       int64  `msgpack:"id"`
	Email    string `msgpack:"email"`
	Password string `msgpack:"password"`
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection reset")
}

func (failingCache) Delete(context.Context, ...string) error {
	return errors.New("connection reset")
}

func (failingCache) Exists(context.Context, string) (bool, error) {
	return false, errors.New("connection reset")
}

func TestNamespaceKey(t *testing.T) {
	ns := NewNamespace[cachedUser](UserNamespace, nil, 0)
	assert.Equal(t, "userCache::42", ns.Key(42))
	assert.Equal(t, UserNamespace, ns.Name())
}

func TestNamespacePutGetEvict(t *testing.T) {
	ctx := context.Background()
	ns := NewNamespace[cachedUser](UserNamespace, NewMemoryCache(100, time.Minute), time.Minute)

	_, ok, err := ns.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ns.Put(ctx, 1, &cachedUser{ID: 1, Email: "jon@example.com", Password: "secret"}))

	got, ok, err := ns.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "jon@example.com", got.Email)

	require.NoError(t, ns.Evict(ctx, 1))
	present, err := ns.Contains(ctx, 1)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestNamespaceNeverCachesNil(t *testing.T) {
	ctx := context.Background()
	ns := NewNamespace[cachedUser](UserNamespace, NewMemoryCache(100, time.Minute), time.Minute)

	require.NoError(t, ns.Put(ctx, 5, nil))

	present, err := ns.Contains(ctx, 5)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestNamespacesDoNotCollide(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryCache(100, time.Minute)
	users := NewNamespace[cachedUser](UserNamespace, backend, time.Minute)
	cards := NewNamespace[cachedUser](CardInfoNamespace, backend, time.Minute)

	require.NoError(t, users.Put(ctx, 1, &cachedUser{ID: 1}))

	_, ok, err := cards.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamespaceWithoutBackend(t *testing.T) {
	ctx := context.Background()
	ns := NewNamespace[cachedUser](UserNamespace, nil, 0)

	assert.NoError(t, ns.Put(ctx, 1, &cachedUser{ID: 1}))
	_, ok, err := ns.Get(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, ns.Evict(ctx, 1))
}

func TestNamespaceBackendErrors(t *testing.T) {
	ctx := context.Background()
	ns := NewNamespace[cachedUser](CardInfoNamespace, failingCache{}, time.Minute)

	_, _, err := ns.Get(ctx, 3)
	assert.ErrorContains(t, err, "cardInfoCache::3")

	err = ns.Put(ctx, 3, &cachedUser{ID: 3})
	assert.ErrorContains(t, err, "failed to write")

	err = ns.Evict(ctx, 3, 4)
	assert.ErrorContains(t, err, "failed to evict")
}

func TestNamespaceCorruptEntry(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryCache(100, time.Minute)
	ns := NewNamespace[cachedUser](UserNamespace, backend, time.Minute)

	require.NoError(t, backend.Set(ctx, ns.Key(9), []byte{0xc1}, time.Minute))

	_, ok, err := ns.Get(ctx, 9)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to decode")
}
