package api

import (
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
)

type Recurring struct {
	Frequency      domain.RecurringFrequency `json:"frequency"`
	Interval       int                       `json:"interval"`
	EndDate        *Date                     `json:"endDate,omitempty"`
	MaxOccurrences *int                      `json:"maxOccurrences,omitempty"`
}

func NewRecurring(r *domain.RecurringConfig) *Recurring {
	if r == nil {
		return nil
	}
	return &Recurring{
		Frequency:      r.Frequency,
		Interval:       r.Interval,
		EndDate:        DatePtr(r.EndDate),
		MaxOccurrences: r.MaxOccurrences,
	}
}

func (r *Recurring) ToDomain() *domain.RecurringConfig {
	if r == nil {
		return nil
	}
	return &domain.RecurringConfig{
		Frequency:      r.Frequency,
		Interval:       r.Interval,
		EndDate:        r.EndDate.TimePtr(),
		MaxOccurrences: r.MaxOccurrences,
	}
}

// Transaction is the response representation of a transaction.
type Transaction struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	Amount      Money                  `json:"amount"`
	Category    domain.Category        `json:"category"`
	Type        domain.TransactionType `json:"type"`
	Date        Date                   `json:"date"`
	Notes       *string                `json:"notes,omitempty"`
	Tags        []string               `json:"tags"`
	Recurring   *Recurring             `json:"recurring,omitempty"`
	Attachments []domain.Attachment    `json:"attachments"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func NewTransaction(t *domain.Transaction) Transaction {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	attachments := t.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return Transaction{
		ID:          t.ID,
		Description: t.Description,
		Amount:      NewMoney(t.Amount),
		Category:    t.Category,
		Type:        t.Type,
		Date:        NewDate(t.Date),
		Notes:       t.Notes,
		Tags:        tags,
		Recurring:   NewRecurring(t.Recurring),
		Attachments: attachments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTransactions(txs []*domain.Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		out[i] = NewTransaction(t)
	}
	return out
}

// ToDomain converts a response back into a domain transaction.
func (t *Transaction) ToDomain() *domain.Transaction {
	tx := &domain.Transaction{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.Decimal,
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date.Time,
		Notes:       t.Notes,
		Recurring:   t.Recurring.ToDomain(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if len(t.Tags) > 0 {
		tx.Tags = t.Tags
	}
	if len(t.Attachments) > 0 {
		tx.Attachments = t.Attachments
	}
	tx.Normalize()
	return tx
}

// CreateTransactionRequest is the body of POST /api/transactions. Any id
// sent by the client is ignored.
type CreateTransactionRequest struct {
	Description *string                 `json:"description"`
	Amount      *Money                  `json:"amount"`
	Category    *domain.Category        `json:"category"`
	Type        *domain.TransactionType `json:"type"`
	Date        *Date                   `json:"date"`
	Notes       *string                 `json:"notes,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Recurring   *Recurring              `json:"recurring,omitempty"`
	Attachments []domain.Attachment     `json:"attachments,omitempty"`
}

func NewCreateTransactionRequest(t *domain.Transaction) CreateTransactionRequest {
	description := t.Description
	amount := NewMoney(t.Amount)
	category := t.Category
	txType := t.Type
	date := NewDate(t.Date)
	return CreateTransactionRequest{
		Description: &description,
		Amount:      &amount,
		Category:    &category,
		Type:        &txType,
		Date:        &date,
		Notes:       t.Notes,
		Tags:        t.Tags,
		Recurring:   NewRecurring(t.Recurring),
		Attachments: t.Attachments,
	}
}

// ToDomain checks that the required fields are present and builds the
// transaction. Field rules are enforced later by Transaction.Validate.
func (r *CreateTransactionRequest) ToDomain() (*domain.Transaction, error) {
	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return nil, domain.NewFieldError("description", domain.ErrDescriptionRequired)
	}
	if r.Amount == nil {
		return nil, domain.NewFieldError("amount", domain.ErrAmountRequired)
	}
	if r.Type == nil || *r.Type == "" {
		return nil, domain.NewFieldError("type", domain.ErrTypeRequired)
	}
	if r.Category == nil || *r.Category == "" {
		return nil, domain.NewFieldError("category", domain.ErrCategoryRequired)
	}
	if r.Date == nil || r.Date.IsZero() {
		return nil, domain.NewFieldError("date", domain.ErrDateRequired)
	}

	t := &domain.Transaction{
		Description: strings.TrimSpace(*r.Description),
		Amount:      r.Amount.Decimal,
		Category:    *r.Category,
		Type:        *r.Type,
		Date:        domain.DateOnly(r.Date.Time),
		Notes:       r.Notes,
		Tags:        r.Tags,
		Recurring:   r.Recurring.ToDomain(),
		Attachments: r.Attachments,
	}
	if t.Notes != nil && *t.Notes == "" {
		t.Notes = nil
	}
	return t, nil
}

// UpdateTransactionRequest is the body of PUT /api/transactions/:id. Absent
// fields are left untouched.
type UpdateTransactionRequest struct {
	Description *string                 `json:"description,omitempty"`
	Amount      *Money                  `json:"amount,omitempty"`
	Category    *domain.Category        `json:"category,omitempty"`
	Type        *domain.TransactionType `json:"type,omitempty"`
	Date        *Date                   `json:"date,omitempty"`
	Notes       *string                 `json:"notes,omitempty"`
	Tags        *[]string               `json:"tags,omitempty"`
	Recurring   *Recurring              `json:"recurring,omitempty"`
	Attachments *[]domain.Attachment    `json:"attachments,omitempty"`
}

func NewUpdateTransactionRequest(p *domain.TransactionPatch) UpdateTransactionRequest {
	r := UpdateTransactionRequest{
		Description: p.Description,
		Category:    p.Category,
		Type:        p.Type,
		Date:        DatePtr(p.Date),
		Notes:       p.Notes,
		Tags:        p.Tags,
		Recurring:   NewRecurring(p.Recurring),
		Attachments: p.Attachments,
	}
	if p.Amount != nil {
		amount := NewMoney(*p.Amount)
		r.Amount = &amount
	}
	return r
}

func (r *UpdateTransactionRequest) ToPatch() *domain.TransactionPatch {
	p := &domain.TransactionPatch{
		Description: r.Description,
		Category:    r.Category,
		Type:        r.Type,
		Date:        r.Date.TimePtr(),
		Notes:       r.Notes,
		Tags:        r.Tags,
		Recurring:   r.Recurring.ToDomain(),
		Attachments: r.Attachments,
	}
	if r.Amount != nil {
		amount := r.Amount.Decimal
		p.Amount = &amount
	}
	return p
}
