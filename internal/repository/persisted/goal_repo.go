package persisted

import (
	"context"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/google/uuid"
)

type GoalRepository struct {
	snapshot *snapshot[*domain.Goal]
	now      func() time.Time
}

var _ domain.GoalRepository = (*GoalRepository)(nil)

func NewGoalRepository(store *kv.Watched) *GoalRepository {
	return &GoalRepository{
		snapshot: &snapshot[*domain.Goal]{
			coll:      kv.NewCollection[*domain.Goal](store, kv.KeyGoals),
			idOf:      func(g *domain.Goal) string { return g.ID },
			normalize: (*domain.Goal).Normalize,
		},
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

	if err := r.snapshot.append(ctx, g); err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	g, ok, err := r.snapshot.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (r *GoalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	return r.snapshot.load(ctx)
}

func (r *GoalRepository) Update(ctx context.Context, id string, patch *domain.GoalPatch) (*domain.Goal, error) {
	g, err := r.snapshot.update(ctx, id, domain.ErrGoalNotFound, func(g *domain.Goal) {
		patch.Apply(g)
		g.Normalize()
		g.UpdatedAt = r.now().UTC()
	})
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	return r.snapshot.remove(ctx, id)
}

func (r *GoalRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.snapshot.remove(ctx, ids...)
}
