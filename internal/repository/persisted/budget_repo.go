package persisted

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/google/uuid"
)

type BudgetRepository struct {
	snapshot *snapshot[*domain.Budget]
	now      func() time.Time
}

var _ domain.BudgetRepository = (*BudgetRepository)(nil)

func NewBudgetRepository(store *kv.Watched) *BudgetRepository {
	return &BudgetRepository{
		snapshot: &snapshot[*domain.Budget]{
			coll:      kv.NewCollection[*domain.Budget](store, kv.KeyBudgets),
			idOf:      func(b *domain.Budget) string { return b.ID },
			normalize: (*domain.Budget).Normalize,
		},
		now: time.Now,
	}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	b := budget.Clone()
	now := r.now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Normalize()

	if err := r.snapshot.append(ctx, b); err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	b, ok, err := r.snapshot.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	return r.snapshot.load(ctx)
}

func (r *BudgetRepository) Update(ctx context.Context, id string, patch *domain.BudgetPatch) (*domain.Budget, error) {
	b, err := r.snapshot.update(ctx, id, domain.ErrBudgetNotFound, func(b *domain.Budget) {
		patch.Apply(b)
		b.Normalize()
		b.UpdatedAt = r.now().UTC()
	})
	if err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	return r.snapshot.remove(ctx, id)
}

func (r *BudgetRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.snapshot.remove(ctx, ids...)
}
