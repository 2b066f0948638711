package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBudget(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/budgets", `{
		"name": "Mercado do mês",
		"amount": 800,
		"period": "monthly",
		"categories": ["alimentacao"],
		"startDate": "2024-01-01",
		"endDate": "2024-01-31"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody[api.Budget](t, rec)
	assert.NotEmpty(t, body.ID)
	assert.True(t, body.IsActive)
	assert.Equal(t, "0.00", body.Spent.StringFixed(2))
	assert.Equal(t, "800.00", body.Remaining.StringFixed(2))
	assert.Equal(t, []string{"budget.created"}, a.events.Types())
}

func TestCreateBudget_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing amount", `{"name": "Casa", "period": "monthly", "categories": ["moradia"], "startDate": "2024-01-01", "endDate": "2024-01-31"}`, "amount"},
		{"no categories", `{"name": "Casa", "amount": 10, "period": "monthly", "categories": [], "startDate": "2024-01-01", "endDate": "2024-01-31"}`, "categories"},
		{"bad period", `{"name": "Casa", "amount": 10, "period": "daily", "categories": ["moradia"], "startDate": "2024-01-01", "endDate": "2024-01-31"}`, "period"},
		{"end before start", `{"name": "Casa", "amount": 10, "period": "monthly", "categories": ["moradia"], "startDate": "2024-02-01", "endDate": "2024-01-31"}`, "endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t)

			rec := a.do(http.MethodPost, "/api/budgets", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody[api.ErrorResponse](t, rec)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.field, body.Errors[0].Field)
			assert.Empty(t, a.budgetRepo.Budgets)
		})
	}
}

func TestGetBudgets_Filters(t *testing.T) {
	a := newTestAPI(t)
	a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500", domain.CategoryAlimentacao))
	inactive := testutil.NewBudget("Lazer", "200", domain.CategoryLazer)
	inactive.IsActive = false
	a.budgetRepo.AddBudget(inactive)

	rec := a.do(http.MethodGet, "/api/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.Budget](t, rec), 2)

	rec = a.do(http.MethodGet, "/api/budgets?active=true", "")
	active := decodeBody[[]api.Budget](t, rec)
	require.Len(t, active, 1)
	assert.Equal(t, "Comida", active[0].Name)

	rec = a.do(http.MethodGet, "/api/budgets?category=lazer", "")
	byCategory := decodeBody[[]api.Budget](t, rec)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Lazer", byCategory[0].Name)

	rec = a.do(http.MethodGet, "/api/budgets?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBudget_NotFound(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/budgets/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Budget not found", decodeBody[api.ErrorResponse](t, rec).Error)
}

func TestUpdateBudget(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	rec := a.do(http.MethodPut, "/api/budgets/"+b.ID, `{"amount": 650, "isActive": false}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[api.Budget](t, rec)
	assert.Equal(t, "Comida", body.Name)
	assert.Equal(t, "650.00", body.Amount.StringFixed(2))
	assert.False(t, body.IsActive)
}

func TestUpdateBudget_RejectsInvertedRange(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	rec := a.do(http.MethodPut, "/api/budgets/"+b.ID, `{"endDate": "2023-12-01"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, a.budgetRepo.Updates)
}

func TestUpdateBudget_UnknownKeysRejected(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	rec := a.do(http.MethodPut, "/api/budgets/"+b.ID, `{"amout": 650}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeBody[api.ErrorResponse](t, rec).Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)
	assert.Equal(t, 0, a.budgetRepo.Updates)
}

func TestUpdateSpent(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	rec := a.do(http.MethodPut, "/api/budgets/"+b.ID+"/spent", `{"spent": 620}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[api.Budget](t, rec)
	assert.Equal(t, "-120.00", body.Remaining.StringFixed(2))
	assert.True(t, body.IsOverBudget)
}

func TestUpdateSpent_Invalid(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	for _, body := range []string{`{}`, `{"spent": -1}`} {
		rec := a.do(http.MethodPut, "/api/budgets/"+b.ID+"/spent", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		errs := decodeBody[api.ErrorResponse](t, rec).Errors
		require.Len(t, errs, 1, body)
		assert.Equal(t, "spent", errs[0].Field)
	}
}

func TestDeleteBudget(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))

	rec := a.do(http.MethodDelete, "/api/budgets/"+b.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodDelete, "/api/budgets/"+b.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkDeleteBudgets(t *testing.T) {
	a := newTestAPI(t)
	first := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))
	a.budgetRepo.AddBudget(testutil.NewBudget("Casa", "1500", domain.CategoryMoradia))

	rec := a.do(http.MethodPost, "/api/budgets/bulk-delete", fmt.Sprintf(`{"ids": [%q, "missing"]}`, first.ID))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, a.budgetRepo.Budgets, 1)
}

func TestGetOverBudgetAndNearLimit(t *testing.T) {
	a := newTestAPI(t)
	over := testutil.NewBudget("Comida", "100")
	over.Spent = decimal.NewFromInt(150)
	over.Recompute()
	a.budgetRepo.AddBudget(over)
	near := testutil.NewBudget("Transporte", "100", domain.CategoryTransporte)
	near.Spent = decimal.NewFromInt(85)
	near.Recompute()
	a.budgetRepo.AddBudget(near)
	a.budgetRepo.AddBudget(testutil.NewBudget("Casa", "100", domain.CategoryMoradia))

	rec := a.do(http.MethodGet, "/api/budgets/over", "")
	require.Equal(t, http.StatusOK, rec.Code)
	overList := decodeBody[[]api.Budget](t, rec)
	require.Len(t, overList, 1)
	assert.Equal(t, "Comida", overList[0].Name)

	rec = a.do(http.MethodGet, "/api/budgets/near-limit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	nearList := decodeBody[[]api.Budget](t, rec)
	require.Len(t, nearList, 1)
	assert.Equal(t, "Transporte", nearList[0].Name)

	rec = a.do(http.MethodGet, "/api/budgets/near-limit?threshold=90", "")
	assert.Empty(t, decodeBody[[]api.Budget](t, rec))

	rec = a.do(http.MethodGet, "/api/budgets/near-limit?threshold=101", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncSpending(t *testing.T) {
	a := newTestAPI(t)
	b := a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "300", domain.CategoryAlimentacao))
	a.txRepo.AddTransaction(testutil.NewTransaction("Mercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "350.50", testutil.Date(2024, time.January, 10)))
	a.txRepo.AddTransaction(testutil.NewTransaction("Feira", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "20", testutil.Date(2024, time.February, 3)))

	rec := a.do(http.MethodPost, "/api/budgets/sync", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[service.SyncResult](t, rec)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{b.ID}, result.OverBudget)

	rec = a.do(http.MethodGet, "/api/budgets/"+b.ID, "")
	assert.Equal(t, "350.50", decodeBody[api.Budget](t, rec).Spent.StringFixed(2))
}
