package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryShards             = 10
	memoryEvictionPercentage = 10
)

// memoryCache keeps entries in process. sturdyc applies one TTL to the whole
// client, so the per-call expiration passed to Set is ignored.
type memoryCache struct {
	client *sturdyc.Client[[]byte]
}

// NewMemoryCache creates an in-process cache holding up to capacity entries for ttl
func NewMemoryCache(capacity int, ttl time.Duration) Cache {
	client := sturdyc.New[[]byte](
		capacity,
		memoryShards,
		ttl,
		memoryEvictionPercentage,
		sturdyc.WithEvictionInterval(ttl),
	)
	return &memoryCache{client: client}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.client.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return val, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.client.Set(key, value)
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.client.Get(key)
	return ok, nil
}
