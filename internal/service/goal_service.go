package service

import (
	"context"
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	goalRepo       domain.GoalRepository
	eventPublisher event.Publisher
	now            func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publishEvent(evt event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(evt)
	}
}

// GoalFilter narrows ListGoals. Zero values match everything.
type GoalFilter struct {
	Status   domain.GoalStatus
	Priority domain.GoalPriority
}

// CreateGoal validates and stores a new goal. Priority defaults to medium,
// status to active, and the current amount starts at zero.
func (s *GoalService) CreateGoal(ctx context.Context, input *domain.Goal) (*domain.Goal, error) {
	g := input.Clone()
	g.ID = ""
	g.Name = strings.TrimSpace(g.Name)
	g.CurrentAmount = decimal.Zero
	if g.Priority == "" {
		g.Priority = domain.PriorityMedium
	}
	if g.Status == "" {
		g.Status = domain.GoalStatusActive
	}
	for i := range g.Milestones {
		g.Milestones[i].ID = uuid.NewString()
		g.Milestones[i].Name = strings.TrimSpace(g.Milestones[i].Name)
		g.Milestones[i].Completed = false
		g.Milestones[i].CompletedAt = nil
	}
	g.Normalize()
	if err := g.Validate(); err != nil {
		return nil, err
	}

	created, err := s.goalRepo.Create(ctx, g)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.GoalCreated(created))
	return created, nil
}

// GetGoal retrieves a goal by ID
func (s *GoalService) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goalRepo.GetByID(ctx, id)
}

// ListGoals returns the goals matching filter in insertion order.
func (s *GoalService) ListGoals(ctx context.Context, filter GoalFilter) ([]*domain.Goal, error) {
	goals, err := s.goalRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Goal, 0, len(goals))
	for _, g := range goals {
		if filter.Status.IsValid() && g.Status != filter.Status {
			continue
		}
		if filter.Priority.IsValid() && g.Priority != filter.Priority {
			continue
		}
		result = append(result, g)
	}
	return result, nil
}

// UpdateGoal merges patch into the goal.
func (s *GoalService) UpdateGoal(ctx context.Context, id string, patch *domain.GoalPatch) (*domain.Goal, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, patch)
}

// Contribute adds amount to the goal's current amount. Milestones reached
// by the new total are completed, and the goal completes once its target
// is met.
func (s *GoalService) Contribute(ctx context.Context, id string, amount decimal.Decimal) (*domain.Goal, error) {
	if !amount.IsPositive() {
		return nil, domain.NewFieldError("amount", domain.ErrInvalidAmount)
	}

	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !goal.AcceptsContributions() {
		return nil, domain.NewFieldError("status", domain.ErrGoalClosed)
	}

	goal.Contribute(amount, s.now().UTC())
	return s.update(ctx, id, &domain.GoalPatch{
		CurrentAmount: &goal.CurrentAmount,
		Status:        &goal.Status,
		Milestones:    &goal.Milestones,
	})
}

// AddMilestone appends a milestone to the goal.
func (s *GoalService) AddMilestone(ctx context.Context, goalID string, milestone domain.Milestone) (*domain.Goal, error) {
	milestone.ID = uuid.NewString()
	milestone.Name = strings.TrimSpace(milestone.Name)
	milestone.Completed = false
	milestone.CompletedAt = nil
	milestone.TargetAmount = milestone.TargetAmount.Abs()
	milestone.TargetDate = domain.DateOnly(milestone.TargetDate)
	if err := milestone.Validate(); err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	milestones := append(goal.Milestones, milestone)
	return s.update(ctx, goalID, &domain.GoalPatch{Milestones: &milestones})
}

// ToggleMilestone flips the completion state of a milestone.
func (s *GoalService) ToggleMilestone(ctx context.Context, goalID, milestoneID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	i := goal.MilestoneIndex(milestoneID)
	if i < 0 {
		return nil, domain.ErrMilestoneNotFound
	}

	m := &goal.Milestones[i]
	m.Completed = !m.Completed
	if m.Completed {
		now := s.now().UTC()
		m.CompletedAt = &now
	} else {
		m.CompletedAt = nil
	}
	return s.update(ctx, goalID, &domain.GoalPatch{Milestones: &goal.Milestones})
}

// RemoveMilestone deletes a milestone from the goal.
func (s *GoalService) RemoveMilestone(ctx context.Context, goalID, milestoneID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	i := goal.MilestoneIndex(milestoneID)
	if i < 0 {
		return nil, domain.ErrMilestoneNotFound
	}

	milestones := append(goal.Milestones[:i:i], goal.Milestones[i+1:]...)
	return s.update(ctx, goalID, &domain.GoalPatch{Milestones: &milestones})
}

// DeleteGoal removes a goal, reporting ErrGoalNotFound for unknown ids.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	if _, err := s.goalRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.goalRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(event.GoalDeleted(id))
	return nil
}

// DeleteGoals removes every listed goal. Unknown ids are ignored.
func (s *GoalService) DeleteGoals(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	if err := s.goalRepo.DeleteMany(ctx, ids); err != nil {
		return err
	}

	s.publishEvent(event.GoalDeleted(ids...))
	return nil
}

func (s *GoalService) update(ctx context.Context, id string, patch *domain.GoalPatch) (*domain.Goal, error) {
	updated, err := s.goalRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.GoalUpdated(updated))
	return updated, nil
}
