package api

import (
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
)

type Budget struct {
	ID              string                      `json:"id"`
	Name            string                      `json:"name"`
	Amount          Money                       `json:"amount"`
	Period          domain.BudgetPeriod         `json:"period"`
	Categories      []domain.Category           `json:"categories"`
	StartDate       Date                        `json:"startDate"`
	EndDate         Date                        `json:"endDate"`
	Spent           Money                       `json:"spent"`
	Remaining       Money                       `json:"remaining"`
	IsActive        bool                        `json:"isActive"`
	Notifications   []domain.BudgetNotification `json:"notifications"`
	UsagePercentage float64                     `json:"usagePercentage"`
	IsOverBudget    bool                        `json:"isOverBudget"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func NewBudget(b *domain.Budget) Budget {
	notifications := b.Notifications
	if notifications == nil {
		notifications = []domain.BudgetNotification{}
	}
	return Budget{
		ID:              b.ID,
		Name:            b.Name,
		Amount:          NewMoney(b.Amount),
		Period:          b.Period,
		Categories:      b.Categories,
		StartDate:       NewDate(b.StartDate),
		EndDate:         NewDate(b.EndDate),
		Spent:           NewMoney(b.Spent),
		Remaining:       NewMoney(b.Remaining),
		IsActive:        b.IsActive,
		Notifications:   notifications,
		UsagePercentage: b.UsagePercentage(),
		IsOverBudget:    b.IsOverBudget(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func NewBudgets(budgets []*domain.Budget) []Budget {
	out := make([]Budget, len(budgets))
	for i, b := range budgets {
		out[i] = NewBudget(b)
	}
	return out
}

type CreateBudgetRequest struct {
	Name          string                      `json:"name"`
	Amount        *Money                      `json:"amount"`
	Period        domain.BudgetPeriod         `json:"period"`
	Categories    []domain.Category           `json:"categories"`
	StartDate     *Date                       `json:"startDate"`
	EndDate       *Date                       `json:"endDate"`
	IsActive      *bool                       `json:"isActive,omitempty"`
	Notifications []domain.BudgetNotification `json:"notifications,omitempty"`
}

// ToDomain builds a new budget. Budgets start active unless isActive is
// explicitly false.
func (r *CreateBudgetRequest) ToDomain() (*domain.Budget, error) {
	if r.Amount == nil {
		return nil, domain.NewFieldError("amount", domain.ErrAmountRequired)
	}
	if r.StartDate == nil {
		return nil, domain.NewFieldError("startDate", domain.ErrDateRequired)
	}
	if r.EndDate == nil {
		return nil, domain.NewFieldError("endDate", domain.ErrDateRequired)
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.Budget{
		Name:          strings.TrimSpace(r.Name),
		Amount:        r.Amount.Decimal,
		Period:        r.Period,
		Categories:    r.Categories,
		StartDate:     r.StartDate.Time,
		EndDate:       r.EndDate.Time,
		IsActive:      active,
		Notifications: r.Notifications,
	}, nil
}

type UpdateBudgetRequest struct {
	Name          *string                      `json:"name,omitempty"`
	Amount        *Money                       `json:"amount,omitempty"`
	Period        *domain.BudgetPeriod         `json:"period,omitempty"`
	Categories    *[]domain.Category           `json:"categories,omitempty"`
	StartDate     *Date                        `json:"startDate,omitempty"`
	EndDate       *Date                        `json:"endDate,omitempty"`
	IsActive      *bool                        `json:"isActive,omitempty"`
	Notifications *[]domain.BudgetNotification `json:"notifications,omitempty"`
}

// ToPatch converts the request. Spent is only changed through the
// dedicated spent endpoint.
func (r *UpdateBudgetRequest) ToPatch() *domain.BudgetPatch {
	p := &domain.BudgetPatch{
		Name:          r.Name,
		Period:        r.Period,
		Categories:    r.Categories,
		StartDate:     r.StartDate.TimePtr(),
		EndDate:       r.EndDate.TimePtr(),
		IsActive:      r.IsActive,
		Notifications: r.Notifications,
	}
	if r.Amount != nil {
		amount := r.Amount.Decimal
		p.Amount = &amount
	}
	return p
}

type UpdateSpentRequest struct {
	Spent *Money `json:"spent"`
}
