package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Change describes a completed write. Value is nil when the key was deleted.
type Change struct {
	Key     string
	Value   []byte
	Deleted bool
}

// Listener observes changes. Listeners run synchronously after the write
// and must not call back into the same key's write path.
type Listener func(Change)

type subscription struct {
	key string
	fn  Listener
}

// Watched wraps a Store with a writer queue per key and observer
// registration. All writes to a key are serialized, so read-modify-write
// cycles through Update never lose updates.
type Watched struct {
	store Store

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	subsMu sync.RWMutex
	subs   map[int]subscription
	nextID int
}

func NewWatched(store Store) *Watched {
	return &Watched{
		store: store,
		locks: make(map[string]*sync.Mutex),
		subs:  make(map[int]subscription),
	}
}

// Subscribe registers fn for changes to key, or to every key when key is
// empty. The returned func removes the subscription.
func (w *Watched) Subscribe(key string, fn Listener) (unsubscribe func()) {
	w.subsMu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = subscription{key: key, fn: fn}
	w.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.subsMu.Lock()
			delete(w.subs, id)
			w.subsMu.Unlock()
		})
	}
}

func (w *Watched) keyLock(key string) *sync.Mutex {
	w.locksMu.Lock()
	defer w.locksMu.Unlock()
	l, ok := w.locks[key]
	if !ok {
		l = &sync.Mutex{}
		w.locks[key] = l
	}
	return l
}

func (w *Watched) notify(change Change) {
	w.subsMu.RLock()
	listeners := make([]Listener, 0, len(w.subs))
	for _, s := range w.subs {
		if s.key == "" || s.key == change.Key {
			listeners = append(listeners, s.fn)
		}
	}
	w.subsMu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

// Get reads key. Missing keys return ErrKeyNotFound; backend failures wrap
// domain.ErrStorage.
func (w *Watched) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := w.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrStorage, key, err)
	}
	return v, nil
}

// Set writes key and notifies observers.
func (w *Watched) Set(ctx context.Context, key string, value []byte) error {
	l := w.keyLock(key)
	l.Lock()
	err := w.store.Set(ctx, key, value)
	l.Unlock()
	if err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrStorage, key, err)
	}
	w.notify(Change{Key: key, Value: value})
	return nil
}

// Delete removes key and notifies observers.
func (w *Watched) Delete(ctx context.Context, key string) error {
	l := w.keyLock(key)
	l.Lock()
	err := w.store.Delete(ctx, key)
	l.Unlock()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrStorage, key, err)
	}
	w.notify(Change{Key: key, Deleted: true})
	return nil
}

// Update runs fn with the current value (nil when absent) while holding the
// key's writer lock and stores the result. When fn returns an error nothing
// is written and the error is returned unchanged.
func (w *Watched) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	l := w.keyLock(key)
	l.Lock()

	current, err := w.store.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		l.Unlock()
		return fmt.Errorf("%w: get %s: %w", domain.ErrStorage, key, err)
	}

	next, err := fn(current)
	if err != nil {
		l.Unlock()
		return err
	}

	if err := w.store.Set(ctx, key, next); err != nil {
		l.Unlock()
		log.Error().Err(err).Str("key", key).Msg("Failed to persist snapshot")
		return fmt.Errorf("%w: set %s: %w", domain.ErrStorage, key, err)
	}
	l.Unlock()

	w.notify(Change{Key: key, Value: next})
	return nil
}

// Close closes the underlying store.
func (w *Watched) Close() error {
	return w.store.Close()
}
