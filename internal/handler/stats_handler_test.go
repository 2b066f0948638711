package handler

import (
	"net/http"
	"testing"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestGetSummary(t *testing.T) {
	a := newTestAPI(t)
	seedTransactions(a)

	rec := a.do(http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[domain.StatsSummary](t, rec)
	assertDecimal(t, "5000", summary.TotalIncome)
	assertDecimal(t, "474.90", summary.TotalExpenses)
	assertDecimal(t, "4525.10", summary.Balance)
	assert.Equal(t, 4, summary.TransactionCount)
	assertDecimal(t, "470.50", summary.CategoryStats[domain.CategoryAlimentacao])
}

func TestGetSummary_Empty(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[domain.StatsSummary](t, rec)
	assert.True(t, summary.Balance.IsZero())
	assert.Equal(t, 0, summary.TransactionCount)
}

func TestGetDetailed_AppliesFilters(t *testing.T) {
	a := newTestAPI(t)
	seedTransactions(a)

	rec := a.do(http.MethodGet, "/api/stats/detailed?startDate=2024-01-01&endDate=2024-01-31&pageSize=1", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decodeBody[domain.TransactionStats](t, rec)
	assert.Equal(t, 3, stats.TransactionCount)
	assertDecimal(t, "5000", stats.TotalIncome)
	assertDecimal(t, "354.90", stats.TotalExpenses)
	assert.False(t, stats.IsEmpty)
}

func TestCompare(t *testing.T) {
	a := newTestAPI(t)
	seedTransactions(a)

	rec := a.do(http.MethodGet, "/api/stats/compare?currentStart=2024-02-01&currentEnd=2024-02-29&previousStart=2024-01-01&previousEnd=2024-01-31", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comparison := decodeBody[domain.PeriodComparison](t, rec)
	require.NotNil(t, comparison.Current)
	require.NotNil(t, comparison.Previous)
	assert.Equal(t, 1, comparison.Current.TransactionCount)
	assert.Equal(t, 3, comparison.Previous.TransactionCount)
	assert.Equal(t, -2, comparison.TransactionCountChange)
}

func TestCompare_RequiresAllDates(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/stats/compare?currentStart=2024-02-01&currentEnd=2024-02-29", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeBody[api.ErrorResponse](t, rec).Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "previousStart", errs[0].Field)
}

func TestGetSpending(t *testing.T) {
	a := newTestAPI(t)
	seedTransactions(a)

	rec := a.do(http.MethodGet, "/api/stats/spending?startDate=2024-01-01&endDate=2024-01-31&categories=alimentacao,transporte", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	spending := decodeBody[map[domain.Category]decimal.Decimal](t, rec)
	assertDecimal(t, "350.50", spending[domain.CategoryAlimentacao])
	assertDecimal(t, "4.40", spending[domain.CategoryTransporte])
	_, hasIncome := spending[domain.CategoryReceita]
	assert.False(t, hasIncome)
}

func TestGetSpending_InvalidCategory(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/stats/spending?startDate=2024-01-01&endDate=2024-01-31&categories=pets", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
