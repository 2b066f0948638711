package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type GoalPriority string

const (
	PriorityLow      GoalPriority = "low"
	PriorityMedium   GoalPriority = "medium"
	PriorityHigh     GoalPriority = "high"
	PriorityCritical GoalPriority = "critical"
)

func (p GoalPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusPaused, GoalStatusCompleted, GoalStatusCancelled:
		return true
	}
	return false
}

type Milestone struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetDate   time.Time       `json:"targetDate"`
	Completed    bool            `json:"completed"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

func (m *Milestone) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}
	if err := validateAmount("targetAmount", m.TargetAmount); err != nil {
		return err
	}
	if m.TargetDate.IsZero() {
		return NewFieldError("targetDate", ErrDateRequired)
	}
	return nil
}

type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Category      *Category       `json:"category,omitempty"`
	Priority      GoalPriority    `json:"priority"`
	Status        GoalStatus      `json:"status"`
	Milestones    []Milestone     `json:"milestones"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Progress returns the completion percentage, capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if p > 100 {
		return 100
	}
	return p
}

// AcceptsContributions reports whether money can still be added.
func (g *Goal) AcceptsContributions() bool {
	return g.Status == GoalStatusActive || g.Status == GoalStatusPaused
}

// Contribute adds amount to the goal, completing milestones it reaches and
// the goal itself once the target is met.
func (g *Goal) Contribute(amount decimal.Decimal, now time.Time) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	for i := range g.Milestones {
		m := &g.Milestones[i]
		if !m.Completed && g.CurrentAmount.GreaterThanOrEqual(m.TargetAmount) {
			m.Completed = true
			completedAt := now
			m.CompletedAt = &completedAt
		}
	}
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalStatusCompleted
	}
}

// MilestoneIndex returns the position of the milestone or -1.
func (g *Goal) MilestoneIndex(id string) int {
	for i, m := range g.Milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	c := *g
	if g.Description != nil {
		d := *g.Description
		c.Description = &d
	}
	if g.Category != nil {
		cat := *g.Category
		c.Category = &cat
	}
	c.Milestones = make([]Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		if m.CompletedAt != nil {
			at := *m.CompletedAt
			m.CompletedAt = &at
		}
		c.Milestones[i] = m
	}
	return &c
}

func (g *Goal) Normalize() {
	g.TargetAmount = g.TargetAmount.Abs()
	g.Deadline = DateOnly(g.Deadline)
	if g.Milestones == nil {
		g.Milestones = []Milestone{}
	}
	for i := range g.Milestones {
		g.Milestones[i].TargetAmount = g.Milestones[i].TargetAmount.Abs()
		g.Milestones[i].TargetDate = DateOnly(g.Milestones[i].TargetDate)
	}
}

func (g *Goal) Validate() error {
	if err := validateName(g.Name); err != nil {
		return err
	}
	if err := validateGoalDescription(g.Description); err != nil {
		return err
	}
	if err := validateAmount("targetAmount", g.TargetAmount); err != nil {
		return err
	}
	if g.Deadline.IsZero() {
		return NewFieldError("deadline", ErrDateRequired)
	}
	if g.Category != nil && !g.Category.IsValid() {
		return NewFieldError("category", ErrInvalidCategory)
	}
	if !g.Priority.IsValid() {
		return NewFieldError("priority", ErrInvalidPriority)
	}
	if !g.Status.IsValid() {
		return NewFieldError("status", ErrInvalidStatus)
	}
	for i := range g.Milestones {
		if err := g.Milestones[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GoalPatch is a partial goal update.
type GoalPatch struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	Category      *Category        `json:"category,omitempty"`
	Priority      *GoalPriority    `json:"priority,omitempty"`
	Status        *GoalStatus      `json:"status,omitempty"`
	Milestones    *[]Milestone     `json:"milestones,omitempty"`
}

func (p *GoalPatch) Validate() error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if err := validateGoalDescription(p.Description); err != nil {
		return err
	}
	if p.TargetAmount != nil {
		if err := validateAmount("targetAmount", *p.TargetAmount); err != nil {
			return err
		}
	}
	if p.CurrentAmount != nil && p.CurrentAmount.IsNegative() {
		return NewFieldError("currentAmount", ErrInvalidAmount)
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return NewFieldError("deadline", ErrInvalidDate)
	}
	if p.Category != nil && *p.Category != "" && !p.Category.IsValid() {
		return NewFieldError("category", ErrInvalidCategory)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return NewFieldError("priority", ErrInvalidPriority)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return NewFieldError("status", ErrInvalidStatus)
	}
	if p.Milestones != nil {
		for i := range *p.Milestones {
			if err := (*p.Milestones)[i].Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Apply merges the patch. Empty description or category clears the field.
func (p *GoalPatch) Apply(g *Goal) {
	if p.Name != nil {
		g.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		if *p.Description == "" {
			g.Description = nil
		} else {
			d := *p.Description
			g.Description = &d
		}
	}
	if p.TargetAmount != nil {
		g.TargetAmount = p.TargetAmount.Abs()
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		g.Deadline = DateOnly(*p.Deadline)
	}
	if p.Category != nil {
		if *p.Category == "" {
			g.Category = nil
		} else {
			c := *p.Category
			g.Category = &c
		}
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Milestones != nil {
		g.Milestones = append([]Milestone{}, (*p.Milestones)...)
	}
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) (*Goal, error)
	GetByID(ctx context.Context, id string) (*Goal, error)
	List(ctx context.Context) ([]*Goal, error)
	Update(ctx context.Context, id string, patch *GoalPatch) (*Goal, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

func validateGoalDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxGoalDescLength {
		return NewFieldError("description", ErrDescriptionTooLong)
	}
	return nil
}
