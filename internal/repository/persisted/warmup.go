package persisted

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Warmup reads every persisted key in parallel so unreachable backends fail
// at startup rather than on the first request. It returns the size in bytes
// of each stored snapshot; missing keys are omitted.
func Warmup(ctx context.Context, store *kv.Watched) (map[string]int, error) {
	sizes := make([]int, len(kv.Keys))
	found := make([]bool, len(kv.Keys))

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range kv.Keys {
		g.Go(func() error {
			raw, err := store.Get(ctx, key)
			if err != nil {
				if errors.Is(err, kv.ErrKeyNotFound) {
					return nil
				}
				return fmt.Errorf("load %s: %w", key, err)
			}
			sizes[i] = len(raw)
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]int, len(kv.Keys))
	for i, key := range kv.Keys {
		if found[i] {
			result[key] = sizes[i]
		}
	}
	log.Info().Interface("snapshots", result).Msg("Persisted snapshots loaded")
	return result, nil
}
