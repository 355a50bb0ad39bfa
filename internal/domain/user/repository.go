package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	CountCustomers(ctx context.Context) (int64, error)
	ListCustomers(ctx context.Context) ([]User, error)
}
