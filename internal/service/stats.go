package service

import (
	"sort"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateStats derives totals, the category breakdown and the monthly
// trend from transactions. Month labels use locale.
func CalculateStats(transactions []*domain.Transaction, locale string) *domain.TransactionStats {
	stats := &domain.TransactionStats{
		TotalIncome:            decimal.Zero,
		TotalExpenses:          decimal.Zero,
		Balance:                decimal.Zero,
		AverageTransaction:     decimal.Zero,
		CategoryBreakdown:      []domain.CategoryStats{},
		TopCategories:          []domain.CategoryStats{},
		MonthlyTrend:           []domain.MonthlyStats{},
		RecentTrend:            domain.TrendStable,
		AverageMonthlyIncome:   decimal.Zero,
		AverageMonthlyExpenses: decimal.Zero,
		TransactionCount:       len(transactions),
		IsEmpty:                len(transactions) == 0,
	}
	if stats.IsEmpty {
		return stats
	}

	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount.Abs())
		case domain.TransactionTypeExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(tx.Amount.Abs())
		}
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)

	total := stats.TotalIncome.Add(stats.TotalExpenses)
	stats.AverageTransaction = total.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2)

	stats.CategoryBreakdown = categoryBreakdown(transactions, total)
	top := stats.CategoryBreakdown
	if len(top) > domain.TopCategoriesLimit {
		top = top[:domain.TopCategoriesLimit]
	}
	stats.TopCategories = append([]domain.CategoryStats{}, top...)

	stats.MonthlyTrend = monthlyTrend(transactions, locale)
	stats.RecentTrend = recentTrend(stats.MonthlyTrend)

	months := decimal.NewFromInt(int64(max(len(stats.MonthlyTrend), 1)))
	stats.AverageMonthlyIncome = stats.TotalIncome.Div(months).Round(2)
	stats.AverageMonthlyExpenses = stats.TotalExpenses.Div(months).Round(2)

	return stats
}

func categoryBreakdown(transactions []*domain.Transaction, total decimal.Decimal) []domain.CategoryStats {
	index := make(map[domain.Category]int)
	breakdown := make([]domain.CategoryStats, 0)

	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeIncome && tx.Type != domain.TransactionTypeExpense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(breakdown)
			index[tx.Category] = i
			breakdown = append(breakdown, domain.CategoryStats{
				Category: tx.Category,
				Label:    tx.Category.Label(),
				Amount:   decimal.Zero,
			})
		}
		breakdown[i].Amount = breakdown[i].Amount.Add(tx.Amount.Abs())
		breakdown[i].Count++
	}

	for i := range breakdown {
		breakdown[i].Percentage = percentOf(breakdown[i].Amount, total)
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

type monthKey struct {
	year  int
	month time.Month
}

func monthlyTrend(transactions []*domain.Transaction, locale string) []domain.MonthlyStats {
	buckets := make(map[monthKey]*domain.MonthlyStats)
	for _, tx := range transactions {
		key := monthKey{year: tx.Date.Year(), month: tx.Date.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.MonthlyStats{
				Year:     key.year,
				Month:    int(key.month),
				Label:    util.MonthLabel(locale, key.year, key.month),
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			}
			buckets[key] = bucket
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			bucket.Income = bucket.Income.Add(tx.Amount.Abs())
		case domain.TransactionTypeExpense:
			bucket.Expenses = bucket.Expenses.Add(tx.Amount.Abs())
		}
		bucket.TransactionCount++
	}

	trend := make([]domain.MonthlyStats, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Balance = bucket.Income.Sub(bucket.Expenses)
		trend = append(trend, *bucket)
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend
}

func recentTrend(trend []domain.MonthlyStats) domain.Trend {
	if len(trend) < 2 {
		return domain.TrendStable
	}
	last := trend[len(trend)-1].Balance
	previous := trend[len(trend)-2].Balance
	switch last.Cmp(previous) {
	case 1:
		return domain.TrendUp
	case -1:
		return domain.TrendDown
	}
	return domain.TrendStable
}

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// percentChange returns the change from previous to current in percent,
// or 0 when previous is zero.
func percentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(hundred).InexactFloat64()
}

// InRange keeps the transactions dated within r.
func InRange(transactions []*domain.Transaction, r domain.DateRange) []*domain.Transaction {
	result := make([]*domain.Transaction, 0)
	for _, tx := range transactions {
		if r.Contains(tx.Date) {
			result = append(result, tx)
		}
	}
	return result
}

// ComparePeriods computes stats for both ranges and the deltas between them.
func ComparePeriods(transactions []*domain.Transaction, current, previous domain.DateRange, locale string) *domain.PeriodComparison {
	cur := CalculateStats(InRange(transactions, current), locale)
	prev := CalculateStats(InRange(transactions, previous), locale)

	return &domain.PeriodComparison{
		Current:                cur,
		Previous:               prev,
		IncomeChange:           percentChange(cur.TotalIncome, prev.TotalIncome),
		ExpensesChange:         percentChange(cur.TotalExpenses, prev.TotalExpenses),
		BalanceChange:          cur.Balance.Sub(prev.Balance),
		TransactionCountChange: cur.TransactionCount - prev.TransactionCount,
	}
}

// SpentByCategory sums expense magnitudes per category within r. An empty
// categories list includes every category.
func SpentByCategory(transactions []*domain.Transaction, categories []domain.Category, r domain.DateRange) map[domain.Category]decimal.Decimal {
	wanted := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	spent := make(map[domain.Category]decimal.Decimal)
	for _, c := range categories {
		spent[c] = decimal.Zero
	}
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || !r.Contains(tx.Date) {
			continue
		}
		if len(wanted) > 0 && !wanted[tx.Category] {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount.Abs())
	}
	return spent
}

// Summarize returns the compact totals view, with per-category sums of
// both income and expense magnitudes.
func Summarize(transactions []*domain.Transaction) *domain.StatsSummary {
	summary := &domain.StatsSummary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		CategoryStats:    make(map[domain.Category]decimal.Decimal),
		TransactionCount: len(transactions),
	}
	for _, tx := range transactions {
		amount := tx.Amount.Abs()
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		case domain.TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		}
		current, ok := summary.CategoryStats[tx.Category]
		if !ok {
			current = decimal.Zero
		}
		summary.CategoryStats[tx.Category] = current.Add(amount)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}
