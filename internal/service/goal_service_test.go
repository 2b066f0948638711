package service

import (
	"context"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoalService() (*GoalService, *testutil.MockGoalRepository, *event.Recorder) {
	repo := testutil.NewMockGoalRepository()
	recorder := &event.Recorder{}
	svc := NewGoalService(repo)
	svc.SetEventPublisher(recorder)
	svc.now = func() time.Time { return testutil.FixedTime }
	return svc, repo, recorder
}

func TestCreateGoal_Defaults(t *testing.T) {
	svc, _, recorder := newGoalService()

	input := testutil.NewGoal("Viagem", "5000", "1000", "2500")
	input.Priority = ""
	input.Status = ""
	input.CurrentAmount = decimal.NewFromInt(300)
	input.Milestones[0].Completed = true

	goal, err := svc.CreateGoal(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, domain.PriorityMedium, goal.Priority)
	assert.Equal(t, domain.GoalStatusActive, goal.Status)
	assert.True(t, goal.CurrentAmount.IsZero())
	require.Len(t, goal.Milestones, 2)
	assert.NotEqual(t, "m1", goal.Milestones[0].ID)
	assert.False(t, goal.Milestones[0].Completed)
	assert.Equal(t, []string{"goal.created"}, recorder.Types())
}

func TestCreateGoal_Validation(t *testing.T) {
	svc, repo, _ := newGoalService()

	tests := []struct {
		name   string
		mutate func(g *domain.Goal)
		err    error
	}{
		{"missing name", func(g *domain.Goal) { g.Name = "" }, domain.ErrNameRequired},
		{"zero target", func(g *domain.Goal) { g.TargetAmount = decimal.Zero }, domain.ErrInvalidAmount},
		{"missing deadline", func(g *domain.Goal) { g.Deadline = time.Time{} }, domain.ErrDateRequired},
		{"bad priority", func(g *domain.Goal) { g.Priority = "urgent" }, domain.ErrInvalidPriority},
		{"bad milestone", func(g *domain.Goal) { g.Milestones[0].TargetAmount = decimal.Zero }, domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testutil.NewGoal("Viagem", "5000", "1000")
			tt.mutate(input)

			_, err := svc.CreateGoal(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Empty(t, repo.Order)
}

func TestListGoals_Filter(t *testing.T) {
	svc, repo, _ := newGoalService()
	repo.AddGoal(testutil.NewGoal("Viagem", "5000"))
	paused := testutil.NewGoal("Carro", "40000")
	paused.Status = domain.GoalStatusPaused
	paused.Priority = domain.PriorityHigh
	repo.AddGoal(paused)

	all, err := svc.ListGoals(context.Background(), GoalFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, _ := svc.ListGoals(context.Background(), GoalFilter{Status: domain.GoalStatusPaused})
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Carro", byStatus[0].Name)

	byPriority, _ := svc.ListGoals(context.Background(), GoalFilter{Priority: domain.PriorityMedium})
	require.Len(t, byPriority, 1)
	assert.Equal(t, "Viagem", byPriority[0].Name)
}

func TestUpdateGoal(t *testing.T) {
	svc, repo, recorder := newGoalService()
	g := repo.AddGoal(testutil.NewGoal("Viagem", "5000"))

	name := "Viagem ao Japão"
	updated, err := svc.UpdateGoal(context.Background(), g.ID, &domain.GoalPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, []string{"goal.updated"}, recorder.Types())

	bad := domain.GoalStatus("archived")
	_, err = svc.UpdateGoal(context.Background(), g.ID, &domain.GoalPatch{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateGoal(context.Background(), "missing", &domain.GoalPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestContribute_CompletesMilestonesAndGoal(t *testing.T) {
	svc, repo, _ := newGoalService()
	g := repo.AddGoal(testutil.NewGoal("Reserva", "1000", "300", "600"))

	goal, err := svc.Contribute(context.Background(), g.ID, decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, goal.Milestones[0].Completed)
	require.NotNil(t, goal.Milestones[0].CompletedAt)
	assert.Equal(t, testutil.FixedTime, *goal.Milestones[0].CompletedAt)
	assert.False(t, goal.Milestones[1].Completed)
	assert.Equal(t, domain.GoalStatusActive, goal.Status)
	assert.InDelta(t, 40.0, goal.Progress(), 0.001)

	goal, err = svc.Contribute(context.Background(), g.ID, decimal.NewFromInt(700))
	require.NoError(t, err)
	assert.True(t, goal.Milestones[1].Completed)
	assert.Equal(t, domain.GoalStatusCompleted, goal.Status)
	assert.Equal(t, 100.0, goal.Progress())

	_, err = svc.Contribute(context.Background(), g.ID, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrGoalClosed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContribute_PausedGoalAccepts(t *testing.T) {
	svc, repo, _ := newGoalService()
	paused := testutil.NewGoal("Carro", "40000")
	paused.Status = domain.GoalStatusPaused
	g := repo.AddGoal(paused)

	goal, err := svc.Contribute(context.Background(), g.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusPaused, goal.Status)
}

func TestContribute_InvalidAmount(t *testing.T) {
	svc, repo, _ := newGoalService()
	g := repo.AddGoal(testutil.NewGoal("Reserva", "1000"))

	for _, amount := range []int64{0, -50} {
		_, err := svc.Contribute(context.Background(), g.ID, decimal.NewFromInt(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestMilestoneLifecycle(t *testing.T) {
	svc, repo, _ := newGoalService()
	g := repo.AddGoal(testutil.NewGoal("Reserva", "1000", "300"))

	goal, err := svc.AddMilestone(context.Background(), g.ID, domain.Milestone{
		Name:         " Metade ",
		TargetAmount: decimal.NewFromInt(-500),
		TargetDate:   testutil.Date(2024, time.August, 1),
	})
	require.NoError(t, err)
	require.Len(t, goal.Milestones, 2)
	added := goal.Milestones[1]
	assert.Equal(t, "Metade", added.Name)
	assert.True(t, added.TargetAmount.Equal(decimal.NewFromInt(500)))
	assert.NotEmpty(t, added.ID)

	goal, err = svc.ToggleMilestone(context.Background(), g.ID, added.ID)
	require.NoError(t, err)
	assert.True(t, goal.Milestones[1].Completed)
	assert.NotNil(t, goal.Milestones[1].CompletedAt)

	goal, err = svc.ToggleMilestone(context.Background(), g.ID, added.ID)
	require.NoError(t, err)
	assert.False(t, goal.Milestones[1].Completed)
	assert.Nil(t, goal.Milestones[1].CompletedAt)

	goal, err = svc.RemoveMilestone(context.Background(), g.ID, "m1")
	require.NoError(t, err)
	require.Len(t, goal.Milestones, 1)
	assert.Equal(t, added.ID, goal.Milestones[0].ID)

	_, err = svc.RemoveMilestone(context.Background(), g.ID, "m1")
	assert.ErrorIs(t, err, domain.ErrMilestoneNotFound)
	_, err = svc.ToggleMilestone(context.Background(), g.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddMilestone_Invalid(t *testing.T) {
	svc, repo, _ := newGoalService()
	g := repo.AddGoal(testutil.NewGoal("Reserva", "1000"))

	_, err := svc.AddMilestone(context.Background(), g.ID, domain.Milestone{Name: "Metade"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := repo.GetByID(context.Background(), g.ID)
	assert.Empty(t, stored.Milestones)
}

func TestDeleteGoal(t *testing.T) {
	svc, repo, recorder := newGoalService()
	a := repo.AddGoal(testutil.NewGoal("Reserva", "1000"))
	b := repo.AddGoal(testutil.NewGoal("Viagem", "5000"))
	c := repo.AddGoal(testutil.NewGoal("Carro", "40000"))

	require.NoError(t, svc.DeleteGoal(context.Background(), a.ID))
	assert.ErrorIs(t, svc.DeleteGoal(context.Background(), a.ID), domain.ErrGoalNotFound)

	require.NoError(t, svc.DeleteGoals(context.Background(), []string{b.ID, "missing"}))
	assert.Equal(t, []string{c.ID}, repo.Order)
	assert.Equal(t, []string{"goal.deleted", "goal.deleted"}, recorder.Types())
}
