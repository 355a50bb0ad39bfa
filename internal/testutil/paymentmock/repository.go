package paymentmock

import (
	"context"

	domain "loanhub-backend/internal/domain/payment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, t *domain.Transaction) error
	GetByProviderTxnIDFn func(ctx context.Context, providerTxnID string) (*domain.Transaction, error)
	ListByLoanIDFn       func(ctx context.Context, loanID uint64) ([]domain.Transaction, error)
	ListByUserIDFn       func(ctx context.Context, userID uint64) ([]domain.Transaction, error)
	SumPaidByLoanIDFn    func(ctx context.Context, loanID uint64) (float64, error)
	SumPaidFn            func(ctx context.Context) (float64, error)
	SumPaidByUserIDFn    func(ctx context.Context, userID uint64) (float64, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByProviderTxnID(ctx context.Context, providerTxnID string) (*domain.Transaction, error) {
	if m.GetByProviderTxnIDFn != nil {
		return m.GetByProviderTxnIDFn(ctx, providerTxnID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Transaction, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID uint64) ([]domain.Transaction, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) SumPaidByLoanID(ctx context.Context, loanID uint64) (float64, error) {
	if m.SumPaidByLoanIDFn != nil {
		return m.SumPaidByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) SumPaid(ctx context.Context) (float64, error) {
	if m.SumPaidFn != nil {
		return m.SumPaidFn(ctx)
	}
	return 0, nil
}

func (m *Repo) SumPaidByUserID(ctx context.Context, userID uint64) (float64, error) {
	if m.SumPaidByUserIDFn != nil {
		return m.SumPaidByUserIDFn(ctx, userID)
	}
	return 0, nil
}
