package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/export"
	"github.com/rs/zerolog/log"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  event.Publisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *TransactionService) publishEvent(evt event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(evt)
	}
}

// TransactionPage is a filtered page of transactions plus the number of
// matches before pagination.
type TransactionPage struct {
	Items []*domain.Transaction
	Total int
}

// CreateTransaction validates and stores a new transaction. Any id on the
// input is discarded.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *domain.Transaction) (*domain.Transaction, error) {
	t := input.Clone()
	t.ID = ""
	t.Description = strings.TrimSpace(t.Description)
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.TransactionCreated(created))
	return created, nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// ListTransactions returns the transactions matching filters.
func (s *TransactionService) ListTransactions(ctx context.Context, filters domain.TransactionFilters) (*TransactionPage, error) {
	all, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{
		Items: FilterTransactions(all, filters),
		Total: FilterTotal(all, filters),
	}, nil
}

// UpdateTransaction validates the patch and merges it into the stored
// transaction. An empty patch still refreshes updatedAt.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	if patch == nil {
		patch = &domain.TransactionPatch{}
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction. Unlike the repository, it
// reports ErrTransactionNotFound for unknown ids.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.transactionRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(event.TransactionDeleted(id))
	return nil
}

// DeleteTransactions removes every listed transaction. Unknown ids are ignored.
func (s *TransactionService) DeleteTransactions(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	if err := s.transactionRepo.DeleteMany(ctx, ids); err != nil {
		return err
	}

	s.publishEvent(event.TransactionsBulkDeleted(ids))
	return nil
}

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported []*domain.Transaction
	Errors   []export.LineError
}

// ImportTransactions creates a transaction for every valid row of a CSV
// export. Invalid rows are reported and skipped.
func (s *TransactionService) ImportTransactions(ctx context.Context, r io.Reader, locale string) (*ImportResult, error) {
	decoded, lineErrors, err := export.DecodeTransactions(r, locale)
	if err != nil {
		return nil, domain.NewFieldError("file", err)
	}

	result := &ImportResult{
		Imported: make([]*domain.Transaction, 0, len(decoded)),
		Errors:   lineErrors,
	}
	if result.Errors == nil {
		result.Errors = []export.LineError{}
	}

	for _, t := range decoded {
		created, err := s.transactionRepo.Create(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("import after %d rows: %w", len(result.Imported), err)
		}
		result.Imported = append(result.Imported, created)
	}

	log.Info().
		Int("imported", len(result.Imported)).
		Int("rejected", len(result.Errors)).
		Msg("Imported transactions")

	if len(result.Imported) > 0 {
		s.publishEvent(event.TransactionsImported(len(result.Imported)))
	}
	return result, nil
}

// uniqueIDs drops blanks and duplicates, keeping the first occurrence.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
