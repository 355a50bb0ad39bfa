package loanmock

import (
	"context"

	domain "loanhub-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.Loan) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByIDForUpdateFn   func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetPendingByUserIDFn func(ctx context.Context, userID uint64) (*domain.Loan, error)
	ListByUserIDFn       func(ctx context.Context, userID uint64) ([]domain.Loan, error)
	ListByStatusFn       func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListAllFn            func(ctx context.Context) ([]domain.Loan, error)
	SaveFn               func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingByUserID(ctx context.Context, userID uint64) (*domain.Loan, error) {
	if m.GetPendingByUserIDFn != nil {
		return m.GetPendingByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID uint64) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
