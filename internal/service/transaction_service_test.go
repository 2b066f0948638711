package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/export"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *event.Recorder) {
	repo := testutil.NewMockTransactionRepository()
	recorder := &event.Recorder{}
	svc := NewTransactionService(repo)
	svc.SetEventPublisher(recorder)
	return svc, repo, recorder
}

func TestCreateTransaction_Success(t *testing.T) {
	svc, repo, recorder := newTransactionService()

	input := testutil.NewTransaction("  Supermercado  ", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "150.00", testutil.Date(2024, time.January, 10))
	input.ID = "client-id"

	transaction, err := svc.CreateTransaction(context.Background(), input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.ID == "" || transaction.ID == "client-id" {
		t.Errorf("Expected a server-assigned id, got %q", transaction.ID)
	}
	if transaction.Description != "Supermercado" {
		t.Errorf("Expected trimmed description, got %q", transaction.Description)
	}
	if !transaction.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected amount 150, got %s", transaction.Amount)
	}
	if !transaction.CreatedAt.Equal(transaction.UpdatedAt) {
		t.Errorf("Expected createdAt == updatedAt, got %v and %v", transaction.CreatedAt, transaction.UpdatedAt)
	}
	if len(repo.Order) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(repo.Order))
	}
	if got := recorder.Types(); len(got) != 1 || got[0] != "transaction.created" {
		t.Errorf("Expected transaction.created event, got %v", got)
	}
	if input.ID != "client-id" {
		t.Error("Expected input to be left untouched")
	}
}

func TestCreateTransaction_NegativeAmountStoredAsMagnitude(t *testing.T) {
	svc, _, _ := newTransactionService()

	input := testutil.NewTransaction("Aluguel", domain.TransactionTypeExpense, domain.CategoryMoradia, "-1200.50", testutil.Date(2024, time.January, 5))

	transaction, err := svc.CreateTransaction(context.Background(), input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !transaction.Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Errorf("Expected amount 1200.50, got %s", transaction.Amount)
	}
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	base := func() *domain.Transaction {
		return testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10))
	}
	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
		field  string
		want   error
	}{
		{"short description", func(tx *domain.Transaction) { tx.Description = "ab" }, "description", domain.ErrDescriptionTooShort},
		{"zero amount", func(tx *domain.Transaction) { tx.Amount = decimal.Zero }, "amount", domain.ErrInvalidAmount},
		{"amount too large", func(tx *domain.Transaction) { tx.Amount = decimal.NewFromInt(1_000_001) }, "amount", domain.ErrAmountTooLarge},
		{"bad type", func(tx *domain.Transaction) { tx.Type = "transfer" }, "type", domain.ErrInvalidType},
		{"bad category", func(tx *domain.Transaction) { tx.Category = "viagem" }, "category", domain.ErrInvalidCategory},
		{"missing date", func(tx *domain.Transaction) { tx.Date = time.Time{} }, "date", domain.ErrDateRequired},
		{"too many tags", func(tx *domain.Transaction) { tx.Tags = make([]string, 21) }, "tags", domain.ErrTooManyTags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, recorder := newTransactionService()
			input := base()
			tt.mutate(input)

			_, err := svc.CreateTransaction(context.Background(), input)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			var fieldErr *domain.FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != tt.field {
				t.Errorf("Expected field %q, got %v", tt.field, err)
			}
			if len(repo.Order) != 0 {
				t.Error("Expected nothing stored")
			}
			if len(recorder.Events()) != 0 {
				t.Error("Expected no events")
			}
		})
	}
}

func TestCreateTransaction_StorageError(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	repo.CreateFn = func(*domain.Transaction) (*domain.Transaction, error) {
		return nil, domain.ErrStorage
	}

	_, err := svc.CreateTransaction(context.Background(), testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10)))
	if !errors.Is(err, domain.ErrStorage) {
		t.Errorf("Expected ErrStorage, got %v", err)
	}
	if len(recorder.Events()) != 0 {
		t.Error("Expected no events on failure")
	}
}

func TestListTransactions_FiltersAndCounts(t *testing.T) {
	svc, repo, _ := newTransactionService()
	for i, amount := range []string{"10", "20", "30", "40", "50"} {
		repo.AddTransaction(testutil.NewTransaction("Compra "+amount, domain.TransactionTypeExpense, domain.CategoryCompras, amount, testutil.Date(2024, time.January, i+1)))
	}
	repo.AddTransaction(testutil.NewTransaction("Salário", domain.TransactionTypeIncome, domain.CategoryReceita, "5000", testutil.Date(2024, time.January, 5)))

	page, err := svc.ListTransactions(context.Background(), domain.TransactionFilters{
		Type:      "expense",
		SortBy:    domain.SortByAmount,
		SortOrder: domain.SortDesc,
		Page:      1,
		PageSize:  2,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if page.Total != 5 {
		t.Errorf("Expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].Amount.String() != "50" || page.Items[1].Amount.String() != "40" {
		t.Errorf("Expected 50, 40, got %s, %s", page.Items[0].Amount, page.Items[1].Amount)
	}
}

func TestUpdateTransaction_MergesPatch(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	notes := "old notes"
	existing := testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10))
	existing.Notes = &notes
	repo.AddTransaction(existing)

	description := "Feira"
	empty := ""
	updated, err := svc.UpdateTransaction(context.Background(), existing.ID, &domain.TransactionPatch{
		Description: &description,
		Notes:       &empty,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Description != "Feira" {
		t.Errorf("Expected description 'Feira', got %q", updated.Description)
	}
	if updated.Notes != nil {
		t.Errorf("Expected notes to be cleared, got %q", *updated.Notes)
	}
	if updated.Category != domain.CategoryAlimentacao {
		t.Errorf("Expected category untouched, got %s", updated.Category)
	}
	if got := recorder.Types(); len(got) != 1 || got[0] != "transaction.updated" {
		t.Errorf("Expected transaction.updated event, got %v", got)
	}
}

func TestUpdateTransaction_InvalidPatch(t *testing.T) {
	svc, repo, _ := newTransactionService()
	existing := repo.AddTransaction(testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10)))

	bad := domain.TransactionType("refund")
	_, err := svc.UpdateTransaction(context.Background(), existing.ID, &domain.TransactionPatch{Type: &bad})
	if !errors.Is(err, domain.ErrInvalidType) {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _, _ := newTransactionService()

	description := "Feira"
	_, err := svc.UpdateTransaction(context.Background(), "missing", &domain.TransactionPatch{Description: &description})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateTransaction_EmptyPatchRefreshesTimestamp(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	existing := repo.AddTransaction(testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10)))
	before := existing.UpdatedAt

	got, err := svc.UpdateTransaction(context.Background(), existing.ID, &domain.TransactionPatch{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Description != "Supermercado" {
		t.Errorf("Expected current transaction, got %q", got.Description)
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("Expected updatedAt after %v, got %v", before, got.UpdatedAt)
	}
	if types := recorder.Types(); len(types) != 1 || types[0] != "transaction.updated" {
		t.Errorf("Expected one transaction.updated event, got %v", types)
	}
}

func TestUpdateTransaction_NilPatchOnMissing(t *testing.T) {
	svc, _, _ := newTransactionService()

	_, err := svc.UpdateTransaction(context.Background(), "missing", nil)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	existing := repo.AddTransaction(testutil.NewTransaction("Supermercado", domain.TransactionTypeExpense, domain.CategoryAlimentacao, "10", testutil.Date(2024, time.January, 10)))

	if err := svc.DeleteTransaction(context.Background(), existing.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(repo.Order) != 0 {
		t.Error("Expected transaction removed")
	}

	err := svc.DeleteTransaction(context.Background(), existing.ID)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound on second delete, got %v", err)
	}
	if got := recorder.Types(); len(got) != 1 || got[0] != "transaction.deleted" {
		t.Errorf("Expected one transaction.deleted event, got %v", got)
	}
}

func TestDeleteTransactions_DedupesAndIgnoresUnknown(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	a := repo.AddTransaction(testutil.NewTransaction("Compra A", domain.TransactionTypeExpense, domain.CategoryCompras, "10", testutil.Date(2024, time.January, 1)))
	b := repo.AddTransaction(testutil.NewTransaction("Compra B", domain.TransactionTypeExpense, domain.CategoryCompras, "20", testutil.Date(2024, time.January, 2)))
	c := repo.AddTransaction(testutil.NewTransaction("Compra C", domain.TransactionTypeExpense, domain.CategoryCompras, "30", testutil.Date(2024, time.January, 3)))

	err := svc.DeleteTransactions(context.Background(), []string{a.ID, " ", a.ID, "unknown", c.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(repo.Order) != 1 || repo.Order[0] != b.ID {
		t.Errorf("Expected only %s left, got %v", b.ID, repo.Order)
	}

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	payload, ok := events[0].Payload.(event.IDsPayload)
	if !ok {
		t.Fatalf("Expected IDsPayload, got %T", events[0].Payload)
	}
	if strings.Join(payload.IDs, ",") != strings.Join([]string{a.ID, "unknown", c.ID}, ",") {
		t.Errorf("Unexpected ids in event: %v", payload.IDs)
	}
}

func TestDeleteTransactions_Empty(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	called := false
	repo.DeleteManyFn = func([]string) error {
		called = true
		return nil
	}

	if err := svc.DeleteTransactions(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if called {
		t.Error("Expected repository not to be called")
	}
	if len(recorder.Events()) != 0 {
		t.Error("Expected no events")
	}
}

func TestImportTransactions(t *testing.T) {
	svc, repo, recorder := newTransactionService()
	input := "id,description,amount,category,type,date,notes,tags,createdAt\n" +
		"old-1,Mercado,89.90,alimentacao,expense,10/01/2024,,feira; semanal,2024-01-10T10:00:00Z\n" +
		"old-2,Salário,5000.00,receita,income,05/01/2024,,,\n" +
		"old-3,X,10.00,lazer,expense,12/01/2024,,,\n"

	result, err := svc.ImportTransactions(context.Background(), strings.NewReader(input), domain.LocalePtBR)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Imported) != 2 {
		t.Fatalf("Expected 2 imported, got %d", len(result.Imported))
	}
	if len(result.Errors) != 1 || result.Errors[0].Line != 4 {
		t.Errorf("Expected one error on line 4, got %+v", result.Errors)
	}
	if result.Imported[0].ID == "old-1" {
		t.Error("Expected ids from the file to be ignored")
	}
	if got := result.Imported[0].Tags; len(got) != 2 || got[0] != "feira" || got[1] != "semanal" {
		t.Errorf("Expected tags [feira semanal], got %v", got)
	}
	if len(repo.Order) != 2 {
		t.Errorf("Expected 2 stored, got %d", len(repo.Order))
	}
	if got := recorder.Types(); len(got) != 1 || got[0] != "transaction.imported" {
		t.Errorf("Expected transaction.imported event, got %v", got)
	}
}

func TestImportTransactions_MissingColumn(t *testing.T) {
	svc, _, _ := newTransactionService()

	_, err := svc.ImportTransactions(context.Background(), strings.NewReader("description,amount\nMercado,10"), domain.LocalePtBR)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if !errors.Is(err, export.ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}
