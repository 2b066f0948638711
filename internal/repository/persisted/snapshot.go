// Package persisted implements the repositories on JSON snapshots stored
// under namespaced keys of a kv.Watched store.
package persisted

import (
	"context"

	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
)

// snapshot adapts a kv.Collection of pointer records to id-based access.
type snapshot[T any] struct {
	coll      *kv.Collection[T]
	idOf      func(T) string
	normalize func(T)
}

func (s *snapshot[T]) load(ctx context.Context) ([]T, error) {
	items, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		s.normalize(item)
	}
	return items, nil
}

func (s *snapshot[T]) find(ctx context.Context, id string) (T, bool, error) {
	items, err := s.load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	for _, item := range items {
		if s.idOf(item) == id {
			return item, true, nil
		}
	}
	var zero T
	return zero, false, nil
}

func (s *snapshot[T]) append(ctx context.Context, item T) error {
	return s.coll.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// update applies fn to the record with id. notFound is returned when the
// id is unknown and the snapshot is left untouched.
func (s *snapshot[T]) update(ctx context.Context, id string, notFound error, fn func(T)) (T, error) {
	var updated T
	err := s.coll.Mutate(ctx, func(items []T) ([]T, error) {
		for _, item := range items {
			if s.idOf(item) == id {
				s.normalize(item)
				fn(item)
				updated = item
				return items, nil
			}
		}
		return nil, notFound
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (s *snapshot[T]) remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return s.coll.Mutate(ctx, func(items []T) ([]T, error) {
		kept := make([]T, 0, len(items))
		for _, item := range items {
			if _, ok := drop[s.idOf(item)]; !ok {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
}
