package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedTime is the clock value mocks stamp on created records.
var FixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[string]*domain.Transaction
	Order        []string
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	GetByIDFn    func(id string) (*domain.Transaction, error)
	ListFn       func() ([]*domain.Transaction, error)
	UpdateFn     func(id string, patch *domain.TransactionPatch) (*domain.Transaction, error)
	DeleteFn     func(id string) error
	DeleteManyFn func(ids []string) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[string]*domain.Transaction),
	}
}

// AddTransaction stores t as is, assigning an id when it has none.
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, ok := m.Transactions[t.ID]; !ok {
		m.Order = append(m.Order, t.ID)
	}
	m.Transactions[t.ID] = t
	return t
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	t := transaction.Clone()
	t.ID = uuid.NewString()
	t.CreatedAt = FixedTime
	t.UpdatedAt = FixedTime
	t.Normalize()
	m.AddTransaction(t)
	return t.Clone(), nil
}

// GetByID retrieves a transaction by its ID
func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return t.Clone(), nil
}

// List returns every transaction in insertion order
func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, m.Transactions[id].Clone())
	}
	return out, nil
}

// Update merges patch into the stored transaction
func (m *MockTransactionRepository) Update(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	patch.Apply(t)
	t.Normalize()
	t.UpdatedAt = FixedTime.Add(time.Minute)
	return t.Clone(), nil
}

// Delete removes a transaction; unknown ids are ignored
func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	return m.DeleteMany(ctx, []string{id})
}

// DeleteMany removes every listed transaction
func (m *MockTransactionRepository) DeleteMany(ctx context.Context, ids []string) error {
	if m.DeleteManyFn != nil {
		return m.DeleteManyFn(ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.Transactions, id)
	}
	kept := m.Order[:0]
	for _, id := range m.Order {
		if _, ok := m.Transactions[id]; ok {
			kept = append(kept, id)
		}
	}
	m.Order = kept
	return nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	mu       sync.Mutex
	Budgets  map[string]*domain.Budget
	Order    []string
	CreateFn func(budget *domain.Budget) (*domain.Budget, error)
	ListFn   func() ([]*domain.Budget, error)
	UpdateFn func(id string, patch *domain.BudgetPatch) (*domain.Budget, error)
	DeleteFn func(id string) error
	Updates  int
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[string]*domain.Budget),
	}
}

// AddBudget stores b as is, assigning an id when it has none.
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) *domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if _, ok := m.Budgets[b.ID]; !ok {
		m.Order = append(m.Order, b.ID)
	}
	m.Budgets[b.ID] = b
	return b
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	b := budget.Clone()
	b.ID = uuid.NewString()
	b.CreatedAt = FixedTime
	b.UpdatedAt = FixedTime
	b.Normalize()
	m.AddBudget(b)
	return b.Clone(), nil
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	return b.Clone(), nil
}

func (m *MockBudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Budget, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, m.Budgets[id].Clone())
	}
	return out, nil
}

func (m *MockBudgetRepository) Update(ctx context.Context, id string, patch *domain.BudgetPatch) (*domain.Budget, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	patch.Apply(b)
	b.Normalize()
	b.UpdatedAt = FixedTime.Add(time.Minute)
	m.Updates++
	return b.Clone(), nil
}

func (m *MockBudgetRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	return m.DeleteMany(ctx, []string{id})
}

func (m *MockBudgetRepository) DeleteMany(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.Budgets, id)
	}
	kept := m.Order[:0]
	for _, id := range m.Order {
		if _, ok := m.Budgets[id]; ok {
			kept = append(kept, id)
		}
	}
	m.Order = kept
	return nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	mu       sync.Mutex
	Goals    map[string]*domain.Goal
	Order    []string
	CreateFn func(goal *domain.Goal) (*domain.Goal, error)
	UpdateFn func(id string, patch *domain.GoalPatch) (*domain.Goal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals: make(map[string]*domain.Goal),
	}
}

// AddGoal stores g as is, assigning an id when it has none.
func (m *MockGoalRepository) AddGoal(g *domain.Goal) *domain.Goal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if _, ok := m.Goals[g.ID]; !ok {
		m.Order = append(m.Order, g.ID)
	}
	m.Goals[g.ID] = g
	return g
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if m.CreateFn != nil {
		return m.CreateFn(goal)
	}
	g := goal.Clone()
	g.ID = uuid.NewString()
	g.CreatedAt = FixedTime
	g.UpdatedAt = FixedTime
	g.Normalize()
	m.AddGoal(g)
	return g.Clone(), nil
}

func (m *MockGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.Goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return g.Clone(), nil
}

func (m *MockGoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Goal, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, m.Goals[id].Clone())
	}
	return out, nil
}

func (m *MockGoalRepository) Update(ctx context.Context, id string, patch *domain.GoalPatch) (*domain.Goal, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.Goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	patch.Apply(g)
	g.Normalize()
	g.UpdatedAt = FixedTime.Add(time.Minute)
	return g.Clone(), nil
}

func (m *MockGoalRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteMany(ctx, []string{id})
}

func (m *MockGoalRepository) DeleteMany(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.Goals, id)
	}
	kept := m.Order[:0]
	for _, id := range m.Order {
		if _, ok := m.Goals[id]; ok {
			kept = append(kept, id)
		}
	}
	m.Order = kept
	return nil
}

// MockPreferencesRepository is a mock implementation of domain.PreferencesRepository
type MockPreferencesRepository struct {
	mu       sync.Mutex
	Settings *domain.Settings
	Filters  *domain.TransactionFilters
	SaveErr  error
}

// NewMockPreferencesRepository creates an empty MockPreferencesRepository
func NewMockPreferencesRepository() *MockPreferencesRepository {
	return &MockPreferencesRepository{}
}

func (m *MockPreferencesRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		return nil, domain.ErrNotFound
	}
	s := *m.Settings
	return &s, nil
}

func (m *MockPreferencesRepository) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	s := *settings
	m.Settings = &s
	return nil
}

func (m *MockPreferencesRepository) DeleteSettings(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settings = nil
	return nil
}

func (m *MockPreferencesRepository) GetFilters(ctx context.Context) (*domain.TransactionFilters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Filters == nil {
		return nil, domain.ErrNotFound
	}
	f := *m.Filters
	return &f, nil
}

func (m *MockPreferencesRepository) SaveFilters(ctx context.Context, filters *domain.TransactionFilters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	f := *filters
	m.Filters = &f
	return nil
}

func (m *MockPreferencesRepository) DeleteFilters(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Filters = nil
	return nil
}

// MockObjectRepository wraps the in-memory object store with error injection.
type MockObjectRepository struct {
	*storage.MemoryObjectRepository
	UploadFn func(objectPath string) error
	Deleted  []string
}

// NewMockObjectRepository creates a new MockObjectRepository
func NewMockObjectRepository() *MockObjectRepository {
	return &MockObjectRepository{
		MemoryObjectRepository: storage.NewMemoryObjectRepository("http://files.test"),
	}
}

func (m *MockObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		if err := m.UploadFn(objectPath); err != nil {
			return "", err
		}
	}
	return m.MemoryObjectRepository.Upload(ctx, objectPath, data, contentType, size)
}

func (m *MockObjectRepository) Delete(ctx context.Context, objectPath string) error {
	m.Deleted = append(m.Deleted, objectPath)
	return m.MemoryObjectRepository.Delete(ctx, objectPath)
}

// Helper functions for creating test data

// NewTransaction builds a valid transaction. amount is a decimal string.
func NewTransaction(description string, txType domain.TransactionType, category domain.Category, amount string, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Type:        txType,
		Date:        date,
	}
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewBudget builds a valid monthly budget covering January 2024.
func NewBudget(name, amount string, categories ...domain.Category) *domain.Budget {
	if len(categories) == 0 {
		categories = []domain.Category{domain.CategoryAlimentacao}
	}
	return &domain.Budget{
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Period:     domain.BudgetPeriodMonthly,
		Categories: categories,
		StartDate:  Date(2024, time.January, 1),
		EndDate:    Date(2024, time.January, 31),
		IsActive:   true,
	}
}

// NewGoal builds a valid active goal with optional milestone amounts.
func NewGoal(name, target string, milestones ...string) *domain.Goal {
	g := &domain.Goal{
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		Deadline:     Date(2024, time.December, 31),
		Priority:     domain.PriorityMedium,
		Status:       domain.GoalStatusActive,
		Milestones:   []domain.Milestone{},
	}
	for i, amount := range milestones {
		g.Milestones = append(g.Milestones, domain.Milestone{
			ID:           fmt.Sprintf("m%d", i+1),
			Name:         fmt.Sprintf("Milestone %d", i+1),
			TargetAmount: decimal.RequireFromString(amount),
			TargetDate:   Date(2024, time.June, 30),
		})
	}
	return g
}
