package kv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	failSet bool
	failGet bool
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("disk unavailable")
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestWatched_SetNotifiesSubscribers(t *testing.T) {
	w := NewWatched(NewMemoryStore())
	ctx := context.Background()

	var keyed, all []Change
	unsubKeyed := w.Subscribe(KeyGoals, func(c Change) { keyed = append(keyed, c) })
	w.Subscribe("", func(c Change) { all = append(all, c) })

	require.NoError(t, w.Set(ctx, KeyGoals, []byte(`[]`)))
	require.NoError(t, w.Set(ctx, KeySettings, []byte(`{}`)))
	require.NoError(t, w.Delete(ctx, KeyGoals))

	require.Len(t, keyed, 2)
	assert.Equal(t, []byte(`[]`), keyed[0].Value)
	assert.True(t, keyed[1].Deleted)
	assert.Len(t, all, 3)

	unsubKeyed()
	unsubKeyed()
	require.NoError(t, w.Set(ctx, KeyGoals, []byte(`[1]`)))
	assert.Len(t, keyed, 2)
	assert.Len(t, all, 4)
}

func TestWatched_GetMissingKey(t *testing.T) {
	w := NewWatched(NewMemoryStore())
	_, err := w.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestWatched_UpdateFailureKeepsSnapshot(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	w := NewWatched(store)
	ctx := context.Background()
	require.NoError(t, w.Set(ctx, KeyTransactions, []byte(`["a"]`)))

	notified := 0
	w.Subscribe(KeyTransactions, func(Change) { notified++ })

	store.failSet = true
	err := w.Update(ctx, KeyTransactions, func(cur []byte) ([]byte, error) {
		return []byte(`["a","b"]`), nil
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 0, notified)

	store.failSet = false
	got, err := w.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), got)
}

func TestWatched_UpdateCallbackErrorIsReturned(t *testing.T) {
	w := NewWatched(NewMemoryStore())
	err := w.Update(context.Background(), KeyBudgets, func([]byte) ([]byte, error) {
		return nil, domain.ErrBudgetNotFound
	})
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
	assert.NotErrorIs(t, err, domain.ErrStorage)
}

func TestWatched_GetFailureWrapsStorage(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), failGet: true}
	w := NewWatched(store)
	_, err := w.Get(context.Background(), KeyGoals)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestCollection_ConcurrentMutationsAreSerialized(t *testing.T) {
	w := NewWatched(NewMemoryStore())
	c := NewCollection[int](w, KeyTransactions)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := c.Mutate(ctx, func(items []int) ([]int, error) {
				return append(items, n), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 50)
}

func TestCollection_LoadMissingAndCorrupt(t *testing.T) {
	w := NewWatched(NewMemoryStore())
	c := NewCollection[string](w, KeyGoals)
	ctx := context.Background()

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, w.Set(ctx, KeyGoals, []byte(`{not json`)))
	items, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDocument_RoundTrip(t *testing.T) {
	type prefs struct {
		Theme string `json:"theme"`
	}
	w := NewWatched(NewMemoryStore())
	d := NewDocument[prefs](w, KeySettings)
	ctx := context.Background()

	_, ok, err := d.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Save(ctx, prefs{Theme: "dark"}))
	got, ok, err := d.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", got.Theme)

	require.NoError(t, d.Delete(ctx))
	_, ok, err = d.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
