// Package repotest holds behaviour tests shared by every repository backend.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTransaction returns a valid expense.
func NewTransaction(description string, amount string) *domain.Transaction {
	return &domain.Transaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    domain.CategoryAlimentacao,
		Type:        domain.TransactionTypeExpense,
		Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"mercado"},
	}
}

// TransactionRepository runs the repository contract against repositories
// built by newRepo. Each subtest gets a fresh, empty repository.
func TransactionRepository(t *testing.T, newRepo func(t *testing.T) domain.TransactionRepository) {
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		in := NewTransaction("Supermercado", "150.5")
		in.ID = "client-id"

		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotEqual(t, "client-id", created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Supermercado", got.Description)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("150.5")))
	})

	t.Run("create normalizes negative amounts", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewTransaction("Aluguel do mês", "-1200"))
		require.NoError(t, err)
		assert.True(t, created.Amount.Equal(decimal.NewFromInt(1200)))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for _, d := range []string{"Primeira", "Segunda", "Terceira"} {
			created, err := repo.Create(ctx, NewTransaction(d, "10"))
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, tx := range list {
			assert.Equal(t, ids[i], tx.ID)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo := newRepo(t)
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update merges patch", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewTransaction("Supermercado", "100"))
		require.NoError(t, err)

		description := "Feira"
		amount := decimal.RequireFromString("-42.1")
		updated, err := repo.Update(ctx, created.ID, &domain.TransactionPatch{
			Description: &description,
			Amount:      &amount,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Feira", updated.Description)
		assert.True(t, updated.Amount.Equal(decimal.RequireFromString("42.1")))
		assert.Equal(t, domain.CategoryAlimentacao, updated.Category)
		assert.Equal(t, []string{"mercado"}, updated.Tags)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Feira", got.Description)
	})

	t.Run("update unknown id", func(t *testing.T) {
		repo := newRepo(t)
		description := "Nada"
		_, err := repo.Update(ctx, "missing", &domain.TransactionPatch{Description: &description})
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		keep, err := repo.Create(ctx, NewTransaction("Manter", "1"))
		require.NoError(t, err)
		drop, err := repo.Create(ctx, NewTransaction("Remover", "2"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, drop.ID))
		require.NoError(t, repo.Delete(ctx, drop.ID))
		require.NoError(t, repo.Delete(ctx, "never-existed"))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, keep.ID, list[0].ID)
	})

	t.Run("delete many ignores unknown ids", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.Create(ctx, NewTransaction("Conta A", "1"))
		require.NoError(t, err)
		b, err := repo.Create(ctx, NewTransaction("Conta B", "2"))
		require.NoError(t, err)
		c, err := repo.Create(ctx, NewTransaction("Conta C", "3"))
		require.NoError(t, err)

		require.NoError(t, repo.DeleteMany(ctx, []string{a.ID, c.ID, "unknown"}))
		require.NoError(t, repo.DeleteMany(ctx, nil))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})

	t.Run("returned values do not alias state", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewTransaction("Original", "5"))
		require.NoError(t, err)

		created.Description = "mutated"
		created.Tags[0] = "mutated"

		list, err := repo.List(ctx)
		require.NoError(t, err)
		list[0].Description = "mutated again"

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Description)
		assert.Equal(t, []string{"mercado"}, got.Tags)
	})
}
