package memory

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/google/uuid"
)

type TransactionRepository struct {
	records *records[*domain.Transaction]
	now     func() time.Time
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository returns a repository seeded with the given
// transactions, kept in order.
func NewTransactionRepository(seed ...*domain.Transaction) *TransactionRepository {
	r := &TransactionRepository{
		records: newRecords(
			func(t *domain.Transaction) string { return t.ID },
			(*domain.Transaction).Clone,
		),
		now: time.Now,
	}
	for _, t := range seed {
		t = t.Clone()
		t.Normalize()
		r.records.add(t)
	}
	return r
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	t := transaction.Clone()
	now := r.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Normalize()
	return r.records.add(t), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, ok := r.records.get(id)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.records.list(), nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	t, found, err := r.records.update(id, func(t *domain.Transaction) error {
		patch.Apply(t)
		t.Normalize()
		t.UpdatedAt = r.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.records.remove(id)
	return nil
}

func (r *TransactionRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.records.remove(ids...)
	return nil
}
