package categorymock

import (
	"context"

	domain "loanhub-backend/internal/domain/category"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn  func(ctx context.Context, c *domain.Category) error
	GetByIDFn func(ctx context.Context, id uint64) (*domain.Category, error)
	ListFn    func(ctx context.Context) ([]domain.Category, error)
	SaveFn    func(ctx context.Context, c *domain.Category) error
	DeleteFn  func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Category) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
