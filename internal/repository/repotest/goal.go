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

func NewGoal(name string) *domain.Goal {
	return &domain.Goal{
		Name:          name,
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.Zero,
		Deadline:      time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		Priority:      domain.PriorityMedium,
		Status:        domain.GoalStatusActive,
		Milestones: []domain.Milestone{
			{ID: "m1", Name: "Metade", TargetAmount: decimal.NewFromInt(2500), TargetDate: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func GoalRepository(t *testing.T, newRepo func(t *testing.T) domain.GoalRepository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewGoal("Viagem"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Viagem", got.Name)
		require.Len(t, got.Milestones, 1)
		assert.Equal(t, "m1", got.Milestones[0].ID)
	})

	t.Run("update status", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewGoal("Reserva"))
		require.NoError(t, err)

		status := domain.GoalStatusPaused
		updated, err := repo.Update(ctx, created.ID, &domain.GoalPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.GoalStatusPaused, updated.Status)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewGoal("Carro novo"))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, created.ID))
		require.NoError(t, repo.Delete(ctx, created.ID))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
