package service

import (
	"context"
	"errors"
	"strings"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  event.Publisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(evt event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(evt)
	}
}

// BudgetFilter narrows ListBudgets. Zero values match everything.
type BudgetFilter struct {
	Active   *bool
	Category domain.Category
	Period   domain.BudgetPeriod
}

func (f BudgetFilter) matches(b *domain.Budget) bool {
	if f.Active != nil && b.IsActive != *f.Active {
		return false
	}
	if f.Category.IsValid() && !b.Covers(f.Category) {
		return false
	}
	if f.Period.IsValid() && b.Period != f.Period {
		return false
	}
	return true
}

// CreateBudget validates and stores a new budget with nothing spent.
func (s *BudgetService) CreateBudget(ctx context.Context, input *domain.Budget) (*domain.Budget, error) {
	b := input.Clone()
	b.ID = ""
	b.Name = strings.TrimSpace(b.Name)
	b.Spent = decimal.Zero
	b.Normalize()
	if err := b.Validate(); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.BudgetCreated(created))
	return created, nil
}

// GetBudget retrieves a budget by ID
func (s *BudgetService) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, id)
}

// ListBudgets returns the budgets matching filter in insertion order.
func (s *BudgetService) ListBudgets(ctx context.Context, filter BudgetFilter) ([]*domain.Budget, error) {
	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Budget, 0, len(budgets))
	for _, b := range budgets {
		if filter.matches(b) {
			result = append(result, b)
		}
	}
	return result, nil
}

// UpdateBudget merges patch into the budget. The merged budget must still
// be valid, so an end date before the start date is rejected here.
func (s *BudgetService) UpdateBudget(ctx context.Context, id string, patch *domain.BudgetPatch) (*domain.Budget, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := current.Clone()
	patch.Apply(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.BudgetUpdated(updated))
	return updated, nil
}

// UpdateSpent sets the amount spent against a budget and recomputes what
// remains.
func (s *BudgetService) UpdateSpent(ctx context.Context, id string, spent decimal.Decimal) (*domain.Budget, error) {
	if spent.IsNegative() {
		return nil, domain.NewFieldError("spent", domain.ErrInvalidSpent)
	}

	updated, err := s.budgetRepo.Update(ctx, id, &domain.BudgetPatch{Spent: &spent})
	if err != nil {
		return nil, err
	}

	s.publishEvent(event.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget removes a budget, reporting ErrBudgetNotFound for unknown ids.
func (s *BudgetService) DeleteBudget(ctx context.Context, id string) error {
	if _, err := s.budgetRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.budgetRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(event.BudgetDeleted(id))
	return nil
}

// DeleteBudgets removes every listed budget. Unknown ids are ignored.
func (s *BudgetService) DeleteBudgets(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	if err := s.budgetRepo.DeleteMany(ctx, ids); err != nil {
		return err
	}

	s.publishEvent(event.BudgetDeleted(ids...))
	return nil
}

// GetOverBudget returns the budgets whose spending exceeds their amount.
func (s *BudgetService) GetOverBudget(ctx context.Context) ([]*domain.Budget, error) {
	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Budget, 0)
	for _, b := range budgets {
		if b.IsOverBudget() {
			result = append(result, b)
		}
	}
	return result, nil
}

// GetNearLimit returns the budgets whose usage is at least threshold percent
// but not yet 100. A zero threshold uses the default of 80.
func (s *BudgetService) GetNearLimit(ctx context.Context, threshold int) ([]*domain.Budget, error) {
	if threshold == 0 {
		threshold = domain.DefaultNearLimitThreshold
	}
	if threshold < 1 || threshold > 100 {
		return nil, domain.NewFieldError("threshold", domain.ErrInvalidThreshold)
	}

	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Budget, 0)
	for _, b := range budgets {
		if b.IsNearLimit(threshold) {
			result = append(result, b)
		}
	}
	return result, nil
}

// SyncResult summarizes a SyncSpending run.
type SyncResult struct {
	Checked    int      `json:"checked"`
	Updated    int      `json:"updated"`
	OverBudget []string `json:"overBudget"`
}

// SyncSpending recomputes the spending of every active budget from the
// expense transactions in its categories and date range. Budgets whose
// spending changed are written through UpdateSpent semantics.
func (s *BudgetService) SyncSpending(ctx context.Context) (*SyncResult, error) {
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{OverBudget: []string{}}
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Checked++

		spending := SpentByCategory(transactions, b.Categories, b.Range())
		spent := b.SpentIn(spending)
		if !spent.Equal(b.Spent) {
			updated, err := s.budgetRepo.Update(ctx, b.ID, &domain.BudgetPatch{Spent: &spent})
			if errors.Is(err, domain.ErrBudgetNotFound) {
				// deleted since List
				continue
			}
			if err != nil {
				return nil, err
			}
			b = updated
			result.Updated++
		}
		if b.IsOverBudget() {
			result.OverBudget = append(result.OverBudget, b.ID)
		}
	}

	if result.Updated > 0 {
		s.publishEvent(event.BudgetsSynced(result))
	}
	return result, nil
}
