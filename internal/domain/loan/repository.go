package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the loan row; only valid inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	GetPendingByUserID(ctx context.Context, userID uint64) (*Loan, error)
	ListByUserID(ctx context.Context, userID uint64) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
