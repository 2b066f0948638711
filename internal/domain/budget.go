package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
	BudgetPeriodCustom    BudgetPeriod = "custom"
)

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodMonthly, BudgetPeriodQuarterly, BudgetPeriodYearly, BudgetPeriodCustom:
		return true
	}
	return false
}

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelPush  NotificationChannel = "push"
	ChannelInApp NotificationChannel = "in-app"
)

func (c NotificationChannel) IsValid() bool {
	return c == ChannelEmail || c == ChannelPush || c == ChannelInApp
}

// DefaultNearLimitThreshold is the usage percentage at which a budget is
// reported as near its limit.
const DefaultNearLimitThreshold = 80

type BudgetNotification struct {
	Threshold int                 `json:"threshold"`
	Channel   NotificationChannel `json:"channel"`
	Enabled   bool                `json:"enabled"`
}

type Budget struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Amount        decimal.Decimal      `json:"amount"`
	Period        BudgetPeriod         `json:"period"`
	Categories    []Category           `json:"categories"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	Spent         decimal.Decimal      `json:"spent"`
	Remaining     decimal.Decimal      `json:"remaining"`
	IsActive      bool                 `json:"isActive"`
	Notifications []BudgetNotification `json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Recompute refreshes the derived remaining amount.
func (b *Budget) Recompute() {
	b.Remaining = b.Amount.Sub(b.Spent)
}

// UsagePercentage returns spent as a percentage of the budget amount.
func (b *Budget) UsagePercentage() float64 {
	if b.Amount.IsZero() {
		return 0
	}
	return b.Spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func (b *Budget) IsOverBudget() bool {
	return b.Spent.GreaterThan(b.Amount)
}

// IsNearLimit reports usage at or above threshold percent but below 100.
func (b *Budget) IsNearLimit(threshold int) bool {
	usage := b.UsagePercentage()
	return usage >= float64(threshold) && usage < 100
}

// Covers reports whether the budget tracks category c.
func (b *Budget) Covers(c Category) bool {
	for _, category := range b.Categories {
		if category == c {
			return true
		}
	}
	return false
}

// Range returns the budget's date range.
func (b *Budget) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// SpentIn sums the spending of the budget's categories.
func (b *Budget) SpentIn(spending map[Category]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, category := range b.Categories {
		total = total.Add(spending[category])
	}
	return total
}

func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}
	c := *b
	c.Categories = append([]Category(nil), b.Categories...)
	c.Notifications = append([]BudgetNotification(nil), b.Notifications...)
	return &c
}

func (b *Budget) Normalize() {
	b.Amount = b.Amount.Abs()
	b.StartDate = DateOnly(b.StartDate)
	b.EndDate = DateOnly(b.EndDate)
	b.Recompute()
}

func (b *Budget) Validate() error {
	if err := validateName(b.Name); err != nil {
		return err
	}
	if err := validateAmount("amount", b.Amount); err != nil {
		return err
	}
	if !b.Period.IsValid() {
		return NewFieldError("period", ErrInvalidPeriod)
	}
	if err := validateBudgetCategories(b.Categories); err != nil {
		return err
	}
	if b.StartDate.IsZero() {
		return NewFieldError("startDate", ErrDateRequired)
	}
	if b.EndDate.IsZero() {
		return NewFieldError("endDate", ErrDateRequired)
	}
	if DateOnly(b.EndDate).Before(DateOnly(b.StartDate)) {
		return NewFieldError("endDate", ErrInvalidDateRange)
	}
	return validateNotifications(b.Notifications)
}

// BudgetPatch is a partial budget update.
type BudgetPatch struct {
	Name          *string               `json:"name,omitempty"`
	Amount        *decimal.Decimal      `json:"amount,omitempty"`
	Period        *BudgetPeriod         `json:"period,omitempty"`
	Categories    *[]Category           `json:"categories,omitempty"`
	StartDate     *time.Time            `json:"startDate,omitempty"`
	EndDate       *time.Time            `json:"endDate,omitempty"`
	Spent         *decimal.Decimal      `json:"spent,omitempty"`
	IsActive      *bool                 `json:"isActive,omitempty"`
	Notifications *[]BudgetNotification `json:"notifications,omitempty"`
}

// Validate checks the present fields. Cross-field date checks happen
// after Apply.
func (p *BudgetPatch) Validate() error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Amount != nil {
		if err := validateAmount("amount", *p.Amount); err != nil {
			return err
		}
	}
	if p.Period != nil && !p.Period.IsValid() {
		return NewFieldError("period", ErrInvalidPeriod)
	}
	if p.Categories != nil {
		if err := validateBudgetCategories(*p.Categories); err != nil {
			return err
		}
	}
	if p.Spent != nil && p.Spent.IsNegative() {
		return NewFieldError("spent", ErrInvalidSpent)
	}
	if p.Notifications != nil {
		return validateNotifications(*p.Notifications)
	}
	return nil
}

// Apply merges the patch and recomputes remaining.
func (p *BudgetPatch) Apply(b *Budget) {
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	if p.Amount != nil {
		b.Amount = p.Amount.Abs()
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Categories != nil {
		b.Categories = append([]Category(nil), (*p.Categories)...)
	}
	if p.StartDate != nil {
		b.StartDate = DateOnly(*p.StartDate)
	}
	if p.EndDate != nil {
		b.EndDate = DateOnly(*p.EndDate)
	}
	if p.Spent != nil {
		b.Spent = *p.Spent
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
	if p.Notifications != nil {
		b.Notifications = append([]BudgetNotification(nil), (*p.Notifications)...)
	}
	b.Recompute()
}

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, id string) (*Budget, error)
	List(ctx context.Context) ([]*Budget, error)
	Update(ctx context.Context, id string, patch *BudgetPatch) (*Budget, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

func validateBudgetCategories(categories []Category) error {
	if len(categories) == 0 {
		return NewFieldError("categories", ErrCategoriesRequired)
	}
	if len(categories) > MaxBudgetCategories {
		return NewFieldError("categories", ErrTooManyCategories)
	}
	seen := make(map[Category]bool, len(categories))
	for _, c := range categories {
		if !c.IsValid() || seen[c] {
			return NewFieldError("categories", ErrInvalidCategory)
		}
		seen[c] = true
	}
	return nil
}

func validateNotifications(notifications []BudgetNotification) error {
	for _, n := range notifications {
		if n.Threshold < 1 || n.Threshold > 100 {
			return NewFieldError("notifications", ErrInvalidThreshold)
		}
		if !n.Channel.IsValid() {
			return NewFieldError("notifications", ErrInvalidChannel)
		}
	}
	return nil
}
