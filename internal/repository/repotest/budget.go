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

func NewBudget(name string) *domain.Budget {
	return &domain.Budget{
		Name:       name,
		Amount:     decimal.NewFromInt(1000),
		Period:     domain.BudgetPeriodMonthly,
		Categories: []domain.Category{domain.CategoryAlimentacao, domain.CategoryLazer},
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
}

func BudgetRepository(t *testing.T, newRepo func(t *testing.T) domain.BudgetRepository) {
	ctx := context.Background()

	t.Run("create recomputes remaining", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewBudget("Mercado"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.Remaining.Equal(decimal.NewFromInt(1000)))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Category{domain.CategoryAlimentacao, domain.CategoryLazer}, got.Categories)
	})

	t.Run("update spent refreshes remaining", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewBudget("Mercado"))
		require.NoError(t, err)

		spent := decimal.RequireFromString("1250.75")
		updated, err := repo.Update(ctx, created.ID, &domain.BudgetPatch{Spent: &spent})
		require.NoError(t, err)
		assert.True(t, updated.Remaining.Equal(decimal.RequireFromString("-250.75")))
		assert.True(t, updated.IsOverBudget())
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
		_, err = repo.Update(ctx, "missing", &domain.BudgetPatch{})
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
	})

	t.Run("delete many", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.Create(ctx, NewBudget("Orçamento A"))
		require.NoError(t, err)
		b, err := repo.Create(ctx, NewBudget("Orçamento B"))
		require.NoError(t, err)

		require.NoError(t, repo.DeleteMany(ctx, []string{a.ID, "unknown"}))
		require.NoError(t, repo.Delete(ctx, a.ID))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})
}
