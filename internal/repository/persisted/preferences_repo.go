package persisted

import (
	"context"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
)

// PreferencesRepository stores settings and saved filters as single JSON
// documents.
type PreferencesRepository struct {
	settings *kv.Document[domain.Settings]
	filters  *kv.Document[domain.TransactionFilters]
}

var _ domain.PreferencesRepository = (*PreferencesRepository)(nil)

func NewPreferencesRepository(store *kv.Watched) *PreferencesRepository {
	return &PreferencesRepository{
		settings: kv.NewDocument[domain.Settings](store, kv.KeySettings),
		filters:  kv.NewDocument[domain.TransactionFilters](store, kv.KeyFilters),
	}
}

func (r *PreferencesRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	s, ok, err := r.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *PreferencesRepository) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	return r.settings.Save(ctx, *settings)
}

func (r *PreferencesRepository) DeleteSettings(ctx context.Context) error {
	return r.settings.Delete(ctx)
}

func (r *PreferencesRepository) GetFilters(ctx context.Context) (*domain.TransactionFilters, error) {
	f, ok, err := r.filters.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *PreferencesRepository) SaveFilters(ctx context.Context, filters *domain.TransactionFilters) error {
	return r.filters.Save(ctx, *filters)
}

func (r *PreferencesRepository) DeleteFilters(ctx context.Context) error {
	return r.filters.Delete(ctx)
}
