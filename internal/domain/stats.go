package domain

import "github.com/shopspring/decimal"

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TopCategoriesLimit is the number of entries in TopCategories.
const TopCategoriesLimit = 5

type CategoryStats struct {
	Category   Category        `json:"category"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

type MonthlyStats struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	Label            string          `json:"label"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

type TransactionStats struct {
	TotalIncome            decimal.Decimal `json:"totalIncome"`
	TotalExpenses          decimal.Decimal `json:"totalExpenses"`
	Balance                decimal.Decimal `json:"balance"`
	TransactionCount       int             `json:"transactionCount"`
	AverageTransaction     decimal.Decimal `json:"averageTransaction"`
	CategoryBreakdown      []CategoryStats `json:"categoryBreakdown"`
	TopCategories          []CategoryStats `json:"topCategories"`
	MonthlyTrend           []MonthlyStats  `json:"monthlyTrend"`
	RecentTrend            Trend           `json:"recentTrend"`
	AverageMonthlyIncome   decimal.Decimal `json:"averageMonthlyIncome"`
	AverageMonthlyExpenses decimal.Decimal `json:"averageMonthlyExpenses"`
	IsEmpty                bool            `json:"isEmpty"`
}

type PeriodComparison struct {
	Current                *TransactionStats `json:"current"`
	Previous               *TransactionStats `json:"previous"`
	IncomeChange           float64           `json:"incomeChange"`
	ExpensesChange         float64           `json:"expensesChange"`
	BalanceChange          decimal.Decimal   `json:"balanceChange"`
	TransactionCountChange int               `json:"transactionCountChange"`
}

// StatsSummary is the compact totals view.
type StatsSummary struct {
	TotalIncome      decimal.Decimal              `json:"totalIncome"`
	TotalExpenses    decimal.Decimal              `json:"totalExpenses"`
	Balance          decimal.Decimal              `json:"balance"`
	CategoryStats    map[Category]decimal.Decimal `json:"categoryStats"`
	TransactionCount int                          `json:"transactionCount"`
}
