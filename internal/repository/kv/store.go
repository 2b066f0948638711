// Package kv stores serialized JSON snapshots under namespaced keys and
// notifies observers whenever a key changes.
package kv

import (
	"context"
	"errors"
	"sync"
)

// Namespaced keys for persisted state.
const (
	KeyTransactions = "budget-loop-transactions"
	KeyBudgets      = "budget-loop-budgets"
	KeyGoals        = "budget-loop-goals"
	KeySettings     = "budget-loop-settings"
	KeyFilters      = "budget-loop-filters"
)

// Keys lists every persisted key.
var Keys = []string{KeyTransactions, KeyBudgets, KeyGoals, KeySettings, KeyFilters}

// ErrKeyNotFound is returned by Get for keys that hold no value.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is a byte-oriented key/value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore keeps values in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
