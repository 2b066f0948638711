package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Collection stores a JSON array of T under a single key.
type Collection[T any] struct {
	store *Watched
	key   string
}

func NewCollection[T any](store *Watched, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored items. A missing key yields an empty slice; an
// unreadable snapshot is logged and also yields an empty slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, err
	}
	return c.decode(raw), nil
}

func (c *Collection[T]) decode(raw []byte) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("Discarding unreadable snapshot")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Mutate loads the items, applies fn and writes the result back under the
// key's writer lock. If fn fails the snapshot is left untouched.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.store.Update(ctx, c.key, func(current []byte) ([]byte, error) {
		next, err := fn(c.decode(current))
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.key, err)
		}
		return data, nil
	})
}

// Document stores a single JSON value of T under a key.
type Document[T any] struct {
	store *Watched
	key   string
}

func NewDocument[T any](store *Watched, key string) *Document[T] {
	return &Document[T]{store: store, key: key}
}

// Load returns the stored value. ok is false when nothing usable is stored.
func (d *Document[T]) Load(ctx context.Context) (value T, ok bool, err error) {
	raw, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return value, false, nil
		}
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warn().Err(err).Str("key", d.key).Msg("Discarding unreadable document")
		var zero T
		return zero, false, nil
	}
	return value, true, nil
}

func (d *Document[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	return d.store.Set(ctx, d.key, data)
}

func (d *Document[T]) Delete(ctx context.Context) error {
	return d.store.Delete(ctx, d.key)
}
