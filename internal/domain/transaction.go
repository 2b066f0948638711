package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringConfig describes how a transaction repeats.
type RecurringConfig struct {
	Frequency      RecurringFrequency `json:"frequency"`
	Interval       int                `json:"interval"`
	EndDate        *time.Time         `json:"endDate,omitempty"`
	MaxOccurrences *int               `json:"maxOccurrences,omitempty"`
}

// Validate checks the recurrence descriptor.
func (r *RecurringConfig) Validate() error {
	if !r.Frequency.IsValid() || r.Interval < 1 {
		return ErrInvalidRecurring
	}
	if r.MaxOccurrences != nil && *r.MaxOccurrences < 1 {
		return ErrInvalidRecurring
	}
	return nil
}

// Attachment is a file linked to a transaction.
type Attachment struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Transaction struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    Category         `json:"category"`
	Type        TransactionType  `json:"type"`
	Date        time.Time        `json:"date"`
	Notes       *string          `json:"notes,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Recurring   *RecurringConfig `json:"recurring,omitempty"`
	Attachments []Attachment     `json:"attachments,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Normalize stores the amount as a positive magnitude and the date as a
// UTC calendar day. Repositories call it on every write and load.
func (t *Transaction) Normalize() {
	t.Amount = t.Amount.Abs()
	t.Date = DateOnly(t.Date)
}

// SignedAmount returns the amount with the sign implied by the type.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Clone returns a deep copy.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.Notes != nil {
		notes := *t.Notes
		c.Notes = &notes
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Recurring != nil {
		r := *t.Recurring
		if r.EndDate != nil {
			end := *r.EndDate
			r.EndDate = &end
		}
		if r.MaxOccurrences != nil {
			max := *r.MaxOccurrences
			r.MaxOccurrences = &max
		}
		c.Recurring = &r
	}
	if t.Attachments != nil {
		c.Attachments = append([]Attachment(nil), t.Attachments...)
	}
	return &c
}

// Validate checks every field of a transaction about to be created.
func (t *Transaction) Validate() error {
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if err := validateAmount("amount", t.Amount); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return NewFieldError("type", ErrInvalidType)
	}
	if !t.Category.IsValid() {
		return NewFieldError("category", ErrInvalidCategory)
	}
	if t.Date.IsZero() {
		return NewFieldError("date", ErrDateRequired)
	}
	if t.Notes != nil && utf8.RuneCountInString(*t.Notes) > MaxNotesLength {
		return NewFieldError("notes", ErrNotesTooLong)
	}
	if err := validateTags(t.Tags); err != nil {
		return err
	}
	if t.Recurring != nil {
		if err := t.Recurring.Validate(); err != nil {
			return NewFieldError("recurring", err)
		}
	}
	return nil
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Recurring   *RecurringConfig `json:"recurring,omitempty"`
	Attachments *[]Attachment    `json:"attachments,omitempty"`
}

// Validate checks each present field with the create rules.
func (p *TransactionPatch) Validate() error {
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Amount != nil {
		if err := validateAmount("amount", *p.Amount); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.IsValid() {
		return NewFieldError("type", ErrInvalidType)
	}
	if p.Category != nil && !p.Category.IsValid() {
		return NewFieldError("category", ErrInvalidCategory)
	}
	if p.Date != nil && p.Date.IsZero() {
		return NewFieldError("date", ErrInvalidDate)
	}
	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > MaxNotesLength {
		return NewFieldError("notes", ErrNotesTooLong)
	}
	if p.Tags != nil {
		if err := validateTags(*p.Tags); err != nil {
			return err
		}
	}
	if p.Recurring != nil {
		if err := p.Recurring.Validate(); err != nil {
			return NewFieldError("recurring", err)
		}
	}
	return nil
}

// Apply merges the patch into t. An empty notes string clears the notes.
func (p *TransactionPatch) Apply(t *Transaction) {
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil {
		t.Amount = p.Amount.Abs()
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		t.Date = DateOnly(*p.Date)
	}
	if p.Notes != nil {
		if *p.Notes == "" {
			t.Notes = nil
		} else {
			notes := *p.Notes
			t.Notes = &notes
		}
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Recurring != nil {
		r := *p.Recurring
		t.Recurring = &r
	}
	if p.Attachments != nil {
		t.Attachments = append([]Attachment(nil), (*p.Attachments)...)
	}
}

// TransactionRepository holds the canonical transaction collection.
// Delete and DeleteMany ignore unknown ids.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context) ([]*Transaction, error)
	Update(ctx context.Context, id string, patch *TransactionPatch) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var maxAmount = decimal.NewFromInt(1_000_000)

func validateAmount(field string, amount decimal.Decimal) error {
	magnitude := amount.Abs()
	if magnitude.IsZero() {
		return NewFieldError(field, ErrInvalidAmount)
	}
	if magnitude.GreaterThan(maxAmount) {
		return NewFieldError(field, ErrAmountTooLarge)
	}
	return nil
}

func validateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return NewFieldError("description", ErrDescriptionRequired)
	case n < MinDescriptionLength:
		return NewFieldError("description", ErrDescriptionTooShort)
	case n > MaxDescriptionLength:
		return NewFieldError("description", ErrDescriptionTooLong)
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return NewFieldError("tags", ErrTooManyTags)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" || utf8.RuneCountInString(tag) > MaxTagLength {
			return NewFieldError("tags", ErrInvalidTag)
		}
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return NewFieldError("name", ErrNameRequired)
	case n < MinNameLength:
		return NewFieldError("name", ErrNameTooShort)
	case n > MaxNameLength:
		return NewFieldError("name", ErrNameTooLong)
	}
	return nil
}
