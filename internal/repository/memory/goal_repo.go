package memory

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/google/uuid"
)

type GoalRepository struct {
	records *records[*domain.Goal]
	now     func() time.Time
}

var _ domain.GoalRepository = (*GoalRepository)(nil)

func NewGoalRepository() *GoalRepository {
	return &GoalRepository{
		records: newRecords(
			func(g *domain.Goal) string { return g.ID },
			(*domain.Goal).Clone,
		),
		now: time.Now,
	}
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	g := goal.Clone()
	now := r.now().UTC()
	g.ID = uuid.NewString()
	g.CreatedAt = now
	g.UpdatedAt = now
	g.Normalize()
	return r.records.add(g), nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	g, ok := r.records.get(id)
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (r *GoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	return r.records.list(), nil
}

func (r *GoalRepository) Update(ctx context.Context, id string, patch *domain.GoalPatch) (*domain.Goal, error) {
	g, found, err := r.records.update(id, func(g *domain.Goal) error {
		patch.Apply(g)
		g.Normalize()
		g.UpdatedAt = r.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	r.records.remove(id)
	return nil
}

func (r *GoalRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.records.remove(ids...)
	return nil
}
