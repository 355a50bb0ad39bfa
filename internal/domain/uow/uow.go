package uow

import (
	"context"

	"loanhub-backend/internal/domain/category"
	"loanhub-backend/internal/domain/loan"
	"loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/domain/user"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Loans        loan.Repository
	Transactions payment.Repository
	Categories   category.Repository
	Users        user.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in a database transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
