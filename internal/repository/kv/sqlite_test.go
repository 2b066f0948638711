package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "budget-loop.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.Get(ctx, KeyTransactions)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, KeyTransactions, []byte(`[{"id":"1"}]`)))
	require.NoError(t, store.Set(ctx, KeyTransactions, []byte(`[{"id":"2"}]`)))

	got, err := store.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(got))

	require.NoError(t, store.Delete(ctx, KeyTransactions))
	require.NoError(t, store.Delete(ctx, KeyTransactions))
	_, err = store.Get(ctx, KeyTransactions)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_ReopenKeepsDataAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget-loop.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeySettings, []byte(`{"theme":"dark"}`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(got))
}
