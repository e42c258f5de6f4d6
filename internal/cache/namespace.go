package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	UserNamespace     = "userCache"
	CardInfoNamespace = "cardInfoCache"

	KeySeparator = "::"
	DefaultTTL   = 15 * time.Minute
)

// Namespace is a typed view over a Cache for one entity type, keyed by entity id.
// Values are msgpack encoded so fields hidden from JSON survive a round trip.
// A Namespace over a nil Cache is valid and does nothing.
type Namespace[T any] struct {
	name    string
	backend Cache
	ttl     time.Duration
}

func NewNamespace[T any](name string, backend Cache, ttl time.Duration) *Namespace[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Namespace[T]{name: name, backend: backend, ttl: ttl}
}

func (n *Namespace[T]) Name() string {
	return n.name
}

func (n *Namespace[T]) Key(id int64) string {
	return n.name + KeySeparator + strconv.FormatInt(id, 10)
}

// Get returns (nil, false, nil) on a miss
func (n *Namespace[T]) Get(ctx context.Context, id int64) (*T, bool, error) {
	if n.backend == nil {
		return nil, false, nil
	}
	data, err := n.backend.Get(ctx, n.Key(id))
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", n.Key(id), err)
	}
	var value T
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", n.Key(id), err)
	}
	return &value, true, nil
}

// Put stores value under id. A nil value is never cached.
func (n *Namespace[T]) Put(ctx context.Context, id int64, value *T) error {
	if n.backend == nil || value == nil {
		return nil
	}
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", n.Key(id), err)
	}
	if err := n.backend.Set(ctx, n.Key(id), data, n.ttl); err != nil {
		return fmt.Errorf("failed to write %s: %w", n.Key(id), err)
	}
	return nil
}

func (n *Namespace[T]) Evict(ctx context.Context, ids ...int64) error {
	if n.backend == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = n.Key(id)
	}
	if err := n.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to evict from %s: %w", n.name, err)
	}
	return nil
}

func (n *Namespace[T]) Contains(ctx context.Context, id int64) (bool, error) {
	if n.backend == nil {
		return false, nil
	}
	return n.backend.Exists(ctx, n.Key(id))
}
