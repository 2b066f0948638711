package memory

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/google/uuid"
)

type BudgetRepository struct {
	records *records[*domain.Budget]
	now     func() time.Time
}

var _ domain.BudgetRepository = (*BudgetRepository)(nil)

func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{
		records: newRecords(
			func(b *domain.Budget) string { return b.ID },
			(*domain.Budget).Clone,
		),
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
	return r.records.add(b), nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	b, ok := r.records.get(id)
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	return r.records.list(), nil
}

func (r *BudgetRepository) Update(ctx context.Context, id string, patch *domain.BudgetPatch) (*domain.Budget, error) {
	b, found, err := r.records.update(id, func(b *domain.Budget) error {
		patch.Apply(b)
		b.Normalize()
		b.UpdatedAt = r.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	r.records.remove(id)
	return nil
}

func (r *BudgetRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.records.remove(ids...)
	return nil
}
