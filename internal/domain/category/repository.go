package category

import "context"

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uint64) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uint64) error
}
