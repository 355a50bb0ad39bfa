package usermock

import (
	"context"

	domain "loanhub-backend/internal/domain/user"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, u *domain.User) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.User, error)
	GetByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	CountCustomersFn func(ctx context.Context) (int64, error)
	ListCustomersFn  func(ctx context.Context) ([]domain.User, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, context.Canceled
}

func (m *Repo) CountCustomers(ctx context.Context) (int64, error) {
	if m.CountCustomersFn != nil {
		return m.CountCustomersFn(ctx)
	}
	return 0, nil
}

func (m *Repo) ListCustomers(ctx context.Context) ([]domain.User, error) {
	if m.ListCustomersFn != nil {
		return m.ListCustomersFn(ctx)
	}
	return nil, nil
}
