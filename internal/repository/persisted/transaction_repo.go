package persisted

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/google/uuid"
)

type TransactionRepository struct {
	snapshot *snapshot[*domain.Transaction]
	now      func() time.Time
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(store *kv.Watched) *TransactionRepository {
	return &TransactionRepository{
		snapshot: &snapshot[*domain.Transaction]{
			coll:      kv.NewCollection[*domain.Transaction](store, kv.KeyTransactions),
			idOf:      func(t *domain.Transaction) string { return t.ID },
			normalize: (*domain.Transaction).Normalize,
		},
		now: time.Now,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	t := transaction.Clone()
	now := r.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Normalize()

	if err := r.snapshot.append(ctx, t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, ok, err := r.snapshot.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.snapshot.load(ctx)
}

func (r *TransactionRepository) Update(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	t, err := r.snapshot.update(ctx, id, domain.ErrTransactionNotFound, func(t *domain.Transaction) {
		patch.Apply(t)
		t.Normalize()
		t.UpdatedAt = r.now().UTC()
	})
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.snapshot.remove(ctx, id)
}

func (r *TransactionRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.snapshot.remove(ctx, ids...)
}
