package api

import (
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
)

type Milestone struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	TargetAmount Money      `json:"targetAmount"`
	TargetDate   Date       `json:"targetDate"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func NewMilestone(m domain.Milestone) Milestone {
	return Milestone{
		ID:           m.ID,
		Name:         m.Name,
		TargetAmount: NewMoney(m.TargetAmount),
		TargetDate:   NewDate(m.TargetDate),
		Completed:    m.Completed,
		CompletedAt:  m.CompletedAt,
	}
}

type Goal struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   *string             `json:"description,omitempty"`
	TargetAmount  Money               `json:"targetAmount"`
	CurrentAmount Money               `json:"currentAmount"`
	Deadline      Date                `json:"deadline"`
	Category      *domain.Category    `json:"category,omitempty"`
	Priority      domain.GoalPriority `json:"priority"`
	Status        domain.GoalStatus   `json:"status"`
	Milestones    []Milestone         `json:"milestones"`
	Progress      float64             `json:"progress"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func NewGoal(g *domain.Goal) Goal {
	milestones := make([]Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		milestones[i] = NewMilestone(m)
	}
	return Goal{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  NewMoney(g.TargetAmount),
		CurrentAmount: NewMoney(g.CurrentAmount),
		Deadline:      NewDate(g.Deadline),
		Category:      g.Category,
		Priority:      g.Priority,
		Status:        g.Status,
		Milestones:    milestones,
		Progress:      g.Progress(),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func NewGoals(goals []*domain.Goal) []Goal {
	out := make([]Goal, len(goals))
	for i, g := range goals {
		out[i] = NewGoal(g)
	}
	return out
}

type MilestoneRequest struct {
	Name         string `json:"name"`
	TargetAmount *Money `json:"targetAmount"`
	TargetDate   *Date  `json:"targetDate"`
}

func (r *MilestoneRequest) ToDomain() (domain.Milestone, error) {
	if r.TargetAmount == nil {
		return domain.Milestone{}, domain.NewFieldError("targetAmount", domain.ErrAmountRequired)
	}
	if r.TargetDate == nil {
		return domain.Milestone{}, domain.NewFieldError("targetDate", domain.ErrDateRequired)
	}
	return domain.Milestone{
		Name:         strings.TrimSpace(r.Name),
		TargetAmount: r.TargetAmount.Decimal,
		TargetDate:   r.TargetDate.Time,
	}, nil
}

type CreateGoalRequest struct {
	Name         string              `json:"name"`
	Description  *string             `json:"description,omitempty"`
	TargetAmount *Money              `json:"targetAmount"`
	Deadline     *Date               `json:"deadline"`
	Category     *domain.Category    `json:"category,omitempty"`
	Priority     domain.GoalPriority `json:"priority,omitempty"`
	Milestones   []MilestoneRequest  `json:"milestones,omitempty"`
}

// ToDomain builds a new goal. Priority defaults to medium.
func (r *CreateGoalRequest) ToDomain() (*domain.Goal, error) {
	if r.TargetAmount == nil {
		return nil, domain.NewFieldError("targetAmount", domain.ErrAmountRequired)
	}
	if r.Deadline == nil {
		return nil, domain.NewFieldError("deadline", domain.ErrDateRequired)
	}
	priority := r.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	milestones := make([]domain.Milestone, 0, len(r.Milestones))
	for i := range r.Milestones {
		m, err := r.Milestones[i].ToDomain()
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return &domain.Goal{
		Name:         strings.TrimSpace(r.Name),
		Description:  r.Description,
		TargetAmount: r.TargetAmount.Decimal,
		Deadline:     r.Deadline.Time,
		Category:     r.Category,
		Priority:     priority,
		Milestones:   milestones,
	}, nil
}

type UpdateGoalRequest struct {
	Name         *string              `json:"name,omitempty"`
	Description  *string              `json:"description,omitempty"`
	TargetAmount *Money               `json:"targetAmount,omitempty"`
	Deadline     *Date                `json:"deadline,omitempty"`
	Category     *domain.Category     `json:"category,omitempty"`
	Priority     *domain.GoalPriority `json:"priority,omitempty"`
	Status       *domain.GoalStatus   `json:"status,omitempty"`
}

func (r *UpdateGoalRequest) ToPatch() *domain.GoalPatch {
	p := &domain.GoalPatch{
		Name:        r.Name,
		Description: r.Description,
		Deadline:    r.Deadline.TimePtr(),
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
	}
	if r.TargetAmount != nil {
		amount := r.TargetAmount.Decimal
		p.TargetAmount = &amount
	}
	return p
}

type ContributeRequest struct {
	Amount *Money `json:"amount"`
}
