package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvLines(body string) []string {
	return strings.Split(strings.TrimRight(body, "\r\n"), "\n")
}

func TestExportTransactions(t *testing.T) {
	a := newTestAPI(t)
	seedTransactions(a)

	rec := a.do(http.MethodGet, "/api/export/transactions?type=expense&sortBy=date&sortOrder=asc", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, MIMETextCSV, rec.Header().Get(echo.HeaderContentType))
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="transacoes-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), disposition)
	assert.Equal(t, "3", rec.Header().Get("X-Export-Rows"))

	lines := csvLines(rec.Body.String())
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "id,description,amount,category,type,date,notes,tags,createdAt")
	assert.Contains(t, lines[1], ",Mercado,350.50,alimentacao,expense,10/01/2024,")
}

func TestExportTransactions_LocaleFromQueryAndSettings(t *testing.T) {
	a := newTestAPI(t)
	a.txRepo.AddTransaction(testutil.NewTransaction("Mercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10)))

	rec := a.do(http.MethodGet, "/api/export/transactions?locale=en-US", "")
	assert.Contains(t, rec.Body.String(), ",1/10/2024,")

	rec = a.do(http.MethodPut, "/api/settings", `{"language": "es-ES"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/api/export/transactions", "")
	assert.Contains(t, rec.Body.String(), ",10/1/2024,")
}

func TestExportTransactions_MalformedQuery(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/export/transactions?endDate=yesterday", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportBudgetsAndGoals(t *testing.T) {
	a := newTestAPI(t)
	a.budgetRepo.AddBudget(testutil.NewBudget("Comida", "500"))
	a.goalRepo.AddGoal(testutil.NewGoal("Viagem", "5000"))

	rec := a.do(http.MethodGet, "/api/export/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "orcamentos-")
	lines := csvLines(rec.Body.String())
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",Comida,500.00,monthly,alimentacao,01/01/2024,31/01/2024,")

	rec = a.do(http.MethodGet, "/api/export/goals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "metas-")
	assert.Equal(t, "1", rec.Header().Get("X-Export-Rows"))
	assert.Contains(t, rec.Body.String(), ",Viagem,")
}

func TestExport_EmptyCollectionHasHeader(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/export/goals", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Export-Rows"))
	assert.Len(t, csvLines(rec.Body.String()), 1)
}
