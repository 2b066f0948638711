// Package memory implements the repositories on in-process slices. State is
// lost on restart; every read and write goes through a copy.
package memory

import (
	"sync"
)

// records is an insertion-ordered list guarded by an RWMutex.
type records[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(T) string
	clone func(T) T
}

func newRecords[T any](idOf func(T) string, clone func(T) T) *records[T] {
	return &records[T]{items: []T{}, idOf: idOf, clone: clone}
}

func (r *records[T]) add(item T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, r.clone(item))
	return r.clone(item)
}

func (r *records[T]) get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if r.idOf(item) == id {
			return r.clone(item), true
		}
	}
	var zero T
	return zero, false
}

func (r *records[T]) list() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.items))
	for i, item := range r.items {
		out[i] = r.clone(item)
	}
	return out
}

// update applies fn to a copy of the record and stores the copy only when
// fn succeeds.
func (r *records[T]) update(id string, fn func(T) error) (T, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if r.idOf(item) != id {
			continue
		}
		next := r.clone(item)
		if err := fn(next); err != nil {
			var zero T
			return zero, true, err
		}
		r.items[i] = next
		return r.clone(next), true, nil
	}
	var zero T
	return zero, false, nil
}

func (r *records[T]) remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0:0]
	for _, item := range r.items {
		if _, ok := drop[r.idOf(item)]; !ok {
			kept = append(kept, item)
		}
	}
	r.items = kept
}
