package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() *Transaction {
	return &Transaction{
		Description: "Salário",
		Amount:      decimal.NewFromInt(5000),
		Category:    CategoryReceita,
		Type:        TransactionTypeIncome,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		expected string
		valid    bool
	}{
		{"income", TransactionTypeIncome, "income", true},
		{"expense", TransactionTypeExpense, "expense", true},
		{"unknown", TransactionType("transfer"), "transfer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.txType) != tt.expected {
				t.Errorf("TransactionType %s = %s, want %s", tt.name, tt.txType, tt.expected)
			}
			if tt.txType.IsValid() != tt.valid {
				t.Errorf("TransactionType(%s).IsValid() = %v, want %v", tt.txType, tt.txType.IsValid(), tt.valid)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	longNotes := strings.Repeat("a", MaxNotesLength+1)
	zeroInterval := &RecurringConfig{Frequency: FrequencyMonthly, Interval: 0}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		field   string
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, "", nil},
		{"negative amount accepted as magnitude", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-250) }, "", nil},
		{"empty description", func(tx *Transaction) { tx.Description = "   " }, "description", ErrDescriptionRequired},
		{"short description", func(tx *Transaction) { tx.Description = "ab" }, "description", ErrDescriptionTooShort},
		{"long description", func(tx *Transaction) { tx.Description = strings.Repeat("x", 256) }, "description", ErrDescriptionTooLong},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, "amount", ErrInvalidAmount},
		{"amount too large", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(1_000_001) }, "amount", ErrAmountTooLarge},
		{"invalid type", func(tx *Transaction) { tx.Type = "transfer" }, "type", ErrInvalidType},
		{"invalid category", func(tx *Transaction) { tx.Category = "pets" }, "category", ErrInvalidCategory},
		{"missing date", func(tx *Transaction) { tx.Date = time.Time{} }, "date", ErrDateRequired},
		{"long notes", func(tx *Transaction) { tx.Notes = &longNotes }, "notes", ErrNotesTooLong},
		{"blank tag", func(tx *Transaction) { tx.Tags = []string{"ok", " "} }, "tags", ErrInvalidTag},
		{"bad recurring", func(tx *Transaction) { tx.Recurring = zeroInterval }, "recurring", ErrInvalidRecurring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(tx)
			err := tx.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error should match ErrInvalidInput")
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("Validate() field = %v, want %s", fe, tt.field)
			}
		})
	}
}

func TestTransaction_Normalize(t *testing.T) {
	tx := validTransaction()
	tx.Amount = decimal.RequireFromString("-120.50")
	tx.Date = time.Date(2024, 3, 10, 18, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	tx.Normalize()

	if !tx.Amount.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("Normalize() amount = %s, want 120.50", tx.Amount)
	}
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !tx.Date.Equal(want) {
		t.Errorf("Normalize() date = %v, want %v", tx.Date, want)
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	tx := validTransaction()
	if !tx.SignedAmount().Equal(decimal.NewFromInt(5000)) {
		t.Errorf("income SignedAmount() = %s", tx.SignedAmount())
	}
	tx.Type = TransactionTypeExpense
	if !tx.SignedAmount().Equal(decimal.NewFromInt(-5000)) {
		t.Errorf("expense SignedAmount() = %s", tx.SignedAmount())
	}
}

func TestTransaction_CloneIsDeep(t *testing.T) {
	notes := "original"
	tx := validTransaction()
	tx.Notes = &notes
	tx.Tags = []string{"a", "b"}

	c := tx.Clone()
	*c.Notes = "changed"
	c.Tags[0] = "z"

	if *tx.Notes != "original" {
		t.Errorf("Clone() shares notes pointer")
	}
	if tx.Tags[0] != "a" {
		t.Errorf("Clone() shares tags slice")
	}
}

func TestTransactionPatch_ApplyAndValidate(t *testing.T) {
	tx := validTransaction()
	notes := "nota"
	tx.Notes = &notes
	before := *tx

	desc := "  Mercado  "
	amount := decimal.RequireFromString("-89.90")
	category := CategoryAlimentacao
	txType := TransactionTypeExpense
	empty := ""
	patch := &TransactionPatch{
		Description: &desc,
		Amount:      &amount,
		Category:    &category,
		Type:        &txType,
		Notes:       &empty,
	}

	if err := patch.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	patch.Apply(tx)

	if tx.Description != "Mercado" {
		t.Errorf("Description = %q, want %q", tx.Description, "Mercado")
	}
	if !tx.Amount.Equal(decimal.RequireFromString("89.90")) {
		t.Errorf("Amount = %s, want 89.90", tx.Amount)
	}
	if tx.Category != CategoryAlimentacao || tx.Type != TransactionTypeExpense {
		t.Errorf("Category/Type not merged: %s/%s", tx.Category, tx.Type)
	}
	if tx.Notes != nil {
		t.Errorf("empty notes should clear the field")
	}
	if !tx.Date.Equal(before.Date) {
		t.Errorf("Date changed although patch did not set it")
	}
}

func TestTransactionPatch_ValidateRejectsBadFields(t *testing.T) {
	bad := TransactionType("gift")
	patch := &TransactionPatch{Type: &bad}
	if err := patch.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("Validate() error = %v, want ErrInvalidType", err)
	}
}

func TestCategory_Label(t *testing.T) {
	if CategorySaude.Label() != "Saúde" {
		t.Errorf("Label() = %s, want Saúde", CategorySaude.Label())
	}
	if Category("pets").Label() != "pets" {
		t.Errorf("unknown category label should be raw value")
	}
	if len(Categories) != 10 {
		t.Errorf("len(Categories) = %d, want 10", len(Categories))
	}
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), true},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.date); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestTransactionFilters_EnumFallback(t *testing.T) {
	f := TransactionFilters{Type: "bogus", Category: FilterAll}
	if _, ok := f.TypeFilter(); ok {
		t.Errorf("invalid type should disable the filter")
	}
	if _, ok := f.CategoryFilter(); ok {
		t.Errorf("'all' should disable the filter")
	}

	f = TransactionFilters{Type: "expense", Category: "lazer"}
	if got, ok := f.TypeFilter(); !ok || got != TransactionTypeExpense {
		t.Errorf("TypeFilter() = %s, %v", got, ok)
	}
	if got, ok := f.CategoryFilter(); !ok || got != CategoryLazer {
		t.Errorf("CategoryFilter() = %s, %v", got, ok)
	}
}
