package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportFixture struct {
	svc   *ExportService
	txs   *testutil.MockTransactionRepository
	prefs *testutil.MockPreferencesRepository
}

func newExportFixture(defaultLocale string) *exportFixture {
	txs := testutil.NewMockTransactionRepository()
	budgets := testutil.NewMockBudgetRepository()
	goals := testutil.NewMockGoalRepository()
	prefs := testutil.NewMockPreferencesRepository()

	txs.AddTransaction(testutil.NewTransaction("Feira", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "80.5", testutil.Date(2024, time.March, 7)))
	txs.AddTransaction(testutil.NewTransaction("Salário", domain.TransactionTypeIncome, domain.CategoryReceita, "5000", testutil.Date(2024, time.March, 5)))
	budgets.AddBudget(testutil.NewBudget("Mercado", "500"))
	goals.AddGoal(testutil.NewGoal("Viagem", "5000"))

	svc := NewExportService(txs, budgets, goals, NewSettingsService(prefs), defaultLocale)
	svc.now = func() time.Time { return testutil.FixedTime }
	return &exportFixture{svc: svc, txs: txs, prefs: prefs}
}

func TestExportTransactions(t *testing.T) {
	f := newExportFixture("")

	file, err := f.svc.ExportTransactions(context.Background(), domain.TransactionFilters{Type: "expense"}, "")
	require.NoError(t, err)
	assert.Equal(t, "transacoes-2024-01-15.csv", file.Filename)
	assert.Equal(t, 1, file.Rows)

	lines := strings.Split(file.Content, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,description,amount"))
	assert.Contains(t, lines[1], "80.50")
	assert.Contains(t, lines[1], "07/03/2024")
}

func TestExportTransactions_LocaleResolution(t *testing.T) {
	f := newExportFixture("es-ES")

	// settings absent: the configured default applies
	file, err := f.svc.ExportTransactions(context.Background(), domain.TransactionFilters{Type: "expense"}, "")
	require.NoError(t, err)
	assert.Contains(t, file.Content, "7/3/2024")

	f.prefs.Settings = domain.DefaultSettings()
	f.prefs.Settings.Language = domain.LocaleEnUS
	file, err = f.svc.ExportTransactions(context.Background(), domain.TransactionFilters{Type: "expense"}, "")
	require.NoError(t, err)
	assert.Contains(t, file.Content, "3/7/2024")

	file, err = f.svc.ExportTransactions(context.Background(), domain.TransactionFilters{Type: "expense"}, domain.LocalePtBR)
	require.NoError(t, err)
	assert.Contains(t, file.Content, "07/03/2024")
}

func TestExportBudgetsAndGoals(t *testing.T) {
	f := newExportFixture(domain.LocalePtBR)

	budgets, err := f.svc.ExportBudgets(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "orcamentos-2024-01-15.csv", budgets.Filename)
	assert.Equal(t, 1, budgets.Rows)
	assert.Contains(t, budgets.Content, "Mercado")
	assert.Contains(t, budgets.Content, "Sim")

	goals, err := f.svc.ExportGoals(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "metas-2024-01-15.csv", goals.Filename)
	assert.Equal(t, 1, goals.Rows)
	assert.Contains(t, goals.Content, "Viagem")
}

func TestExportTransactions_StorageError(t *testing.T) {
	f := newExportFixture("")
	f.txs.ListFn = func() ([]*domain.Transaction, error) {
		return nil, domain.ErrStorage
	}

	_, err := f.svc.ExportTransactions(context.Background(), domain.DefaultFilters(), "")
	assert.ErrorIs(t, err, domain.ErrStorage)
}
