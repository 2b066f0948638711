package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ListSeparator joins multi-valued fields such as tags and categories.
const ListSeparator = "; "

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TransactionColumns is the transactions layout.
func TransactionColumns(locale string) []Column[*domain.Transaction] {
	return []Column[*domain.Transaction]{
		{"id", func(t *domain.Transaction) string { return t.ID }},
		{"description", func(t *domain.Transaction) string { return t.Description }},
		{"amount", func(t *domain.Transaction) string { return money(t.Amount) }},
		{"category", func(t *domain.Transaction) string { return string(t.Category) }},
		{"type", func(t *domain.Transaction) string { return string(t.Type) }},
		{"date", func(t *domain.Transaction) string { return util.FormatDate(locale, t.Date) }},
		{"notes", func(t *domain.Transaction) string { return optional(t.Notes) }},
		{"tags", func(t *domain.Transaction) string { return strings.Join(t.Tags, ListSeparator) }},
		{"createdAt", func(t *domain.Transaction) string { return timestamp(t.CreatedAt) }},
	}
}

// BudgetColumns is the budgets layout.
func BudgetColumns(locale string) []Column[*domain.Budget] {
	return []Column[*domain.Budget]{
		{"id", func(b *domain.Budget) string { return b.ID }},
		{"name", func(b *domain.Budget) string { return b.Name }},
		{"amount", func(b *domain.Budget) string { return money(b.Amount) }},
		{"period", func(b *domain.Budget) string { return string(b.Period) }},
		{"categories", func(b *domain.Budget) string {
			names := make([]string, len(b.Categories))
			for i, c := range b.Categories {
				names[i] = string(c)
			}
			return strings.Join(names, ListSeparator)
		}},
		{"startDate", func(b *domain.Budget) string { return util.FormatDate(locale, b.StartDate) }},
		{"endDate", func(b *domain.Budget) string { return util.FormatDate(locale, b.EndDate) }},
		{"spent", func(b *domain.Budget) string { return money(b.Spent) }},
		{"remaining", func(b *domain.Budget) string { return money(b.Remaining) }},
		{"isActive", func(b *domain.Budget) string { return util.FormatBool(locale, b.IsActive) }},
		{"createdAt", func(b *domain.Budget) string { return timestamp(b.CreatedAt) }},
	}
}

// GoalColumns is the goals layout.
func GoalColumns(locale string) []Column[*domain.Goal] {
	return []Column[*domain.Goal]{
		{"id", func(g *domain.Goal) string { return g.ID }},
		{"name", func(g *domain.Goal) string { return g.Name }},
		{"description", func(g *domain.Goal) string { return optional(g.Description) }},
		{"targetAmount", func(g *domain.Goal) string { return money(g.TargetAmount) }},
		{"currentAmount", func(g *domain.Goal) string { return money(g.CurrentAmount) }},
		{"deadline", func(g *domain.Goal) string { return util.FormatDate(locale, g.Deadline) }},
		{"category", func(g *domain.Goal) string {
			if g.Category == nil {
				return ""
			}
			return string(*g.Category)
		}},
		{"priority", func(g *domain.Goal) string { return string(g.Priority) }},
		{"status", func(g *domain.Goal) string { return string(g.Status) }},
		{"progress", func(g *domain.Goal) string { return fmt.Sprintf("%.1f%%", g.Progress()) }},
		{"createdAt", func(g *domain.Goal) string { return timestamp(g.CreatedAt) }},
	}
}

// Transactions encodes transactions with the locale's formats.
func Transactions(rows []*domain.Transaction, locale string) string {
	return Encode(rows, TransactionColumns(locale), Options{})
}

// Budgets encodes budgets with the locale's formats.
func Budgets(rows []*domain.Budget, locale string) string {
	return Encode(rows, BudgetColumns(locale), Options{})
}

// Goals encodes goals with the locale's formats.
func Goals(rows []*domain.Goal, locale string) string {
	return Encode(rows, GoalColumns(locale), Options{})
}
