package payment

import "context"

type Repository interface {
	// Create inserts a settlement row; the unique index on provider_txn_id
	// surfaces ErrDuplicateTxnID on a concurrent double-submit.
	Create(ctx context.Context, t *Transaction) error
	GetByProviderTxnID(ctx context.Context, providerTxnID string) (*Transaction, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Transaction, error)
	ListByUserID(ctx context.Context, userID uint64) ([]Transaction, error)
	SumPaidByLoanID(ctx context.Context, loanID uint64) (float64, error)
	SumPaid(ctx context.Context) (float64, error)
	SumPaidByUserID(ctx context.Context, userID uint64) (float64, error)
}
