package service

import (
	"context"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// StatsService computes statistics over the stored transactions
type StatsService struct {
	transactionRepo domain.TransactionRepository
	defaultLocale   string
}

// NewStatsService creates a new StatsService. Month labels fall back to
// defaultLocale when a request names no supported locale.
func NewStatsService(transactionRepo domain.TransactionRepository, defaultLocale string) *StatsService {
	if !domain.IsSupportedLocale(defaultLocale) {
		defaultLocale = domain.DefaultLocale
	}
	return &StatsService{
		transactionRepo: transactionRepo,
		defaultLocale:   defaultLocale,
	}
}

func (s *StatsService) locale(requested string) string {
	if domain.IsSupportedLocale(requested) {
		return requested
	}
	return s.defaultLocale
}

// GetSummary returns totals and per-category sums over every transaction.
func (s *StatsService) GetSummary(ctx context.Context) (*domain.StatsSummary, error) {
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(transactions), nil
}

// GetDetailed computes the full statistics of the transactions matching
// filters. Pagination in filters is ignored.
func (s *StatsService) GetDetailed(ctx context.Context, filters domain.TransactionFilters, locale string) (*domain.TransactionStats, error) {
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := FilterTransactions(transactions, filters.WithoutPagination())
	return CalculateStats(matched, s.locale(locale)), nil
}

// Compare computes statistics for two date ranges and the change between them.
func (s *StatsService) Compare(ctx context.Context, current, previous domain.DateRange, locale string) (*domain.PeriodComparison, error) {
	if err := current.Validate(); err != nil {
		return nil, domain.NewFieldError("current", err)
	}
	if err := previous.Validate(); err != nil {
		return nil, domain.NewFieldError("previous", err)
	}
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComparePeriods(transactions, current, previous, s.locale(locale)), nil
}

// GetSpending sums expenses per category within r. An empty categories list
// covers every category.
func (s *StatsService) GetSpending(ctx context.Context, categories []domain.Category, r domain.DateRange) (map[domain.Category]decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, c := range categories {
		if !c.IsValid() {
			return nil, domain.NewFieldError("categories", domain.ErrInvalidCategory)
		}
	}
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return SpentByCategory(transactions, categories, r), nil
}
