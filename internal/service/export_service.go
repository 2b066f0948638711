package service

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/export"
)

// ExportService renders collections as CSV documents
type ExportService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	goalRepo        domain.GoalRepository
	settings        *SettingsService
	defaultLocale   string
	now             func() time.Time
}

// NewExportService creates a new ExportService. settings may be nil.
func NewExportService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	goalRepo domain.GoalRepository,
	settings *SettingsService,
	defaultLocale string,
) *ExportService {
	if !domain.IsSupportedLocale(defaultLocale) {
		defaultLocale = domain.DefaultLocale
	}
	return &ExportService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		goalRepo:        goalRepo,
		settings:        settings,
		defaultLocale:   defaultLocale,
		now:             time.Now,
	}
}

// ExportFile is a rendered CSV document.
type ExportFile struct {
	Filename string
	Content  string
	Rows     int
}

// resolveLocale picks the requested locale, then the user's language
// setting, then the configured default.
func (s *ExportService) resolveLocale(ctx context.Context, requested string) string {
	if domain.IsSupportedLocale(requested) {
		return requested
	}
	if s.settings != nil {
		if settings, err := s.settings.GetSettings(ctx); err == nil && domain.IsSupportedLocale(settings.Language) {
			return settings.Language
		}
	}
	return s.defaultLocale
}

func (s *ExportService) filename(kind string) string {
	return fmt.Sprintf("%s-%s.csv", kind, s.now().UTC().Format("2006-01-02"))
}

// ExportTransactions renders the transactions matching filters.
func (s *ExportService) ExportTransactions(ctx context.Context, filters domain.TransactionFilters, locale string) (*ExportFile, error) {
	all, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := FilterTransactions(all, filters)
	return &ExportFile{
		Filename: s.filename("transacoes"),
		Content:  export.Transactions(rows, s.resolveLocale(ctx, locale)),
		Rows:     len(rows),
	}, nil
}

// ExportBudgets renders every budget.
func (s *ExportService) ExportBudgets(ctx context.Context, locale string) (*ExportFile, error) {
	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename: s.filename("orcamentos"),
		Content:  export.Budgets(budgets, s.resolveLocale(ctx, locale)),
		Rows:     len(budgets),
	}, nil
}

// ExportGoals renders every goal.
func (s *ExportService) ExportGoals(ctx context.Context, locale string) (*ExportFile, error) {
	goals, err := s.goalRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename: s.filename("metas"),
		Content:  export.Goals(goals, s.resolveLocale(ctx, locale)),
		Rows:     len(goals),
	}, nil
}
