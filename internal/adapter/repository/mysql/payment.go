package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	paymentDomain "loanhub-backend/internal/domain/payment"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *paymentDomain.Transaction) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return paymentDomain.ErrDuplicateTxnID
	}
	return err
}

func (r *TransactionRepository) GetByProviderTxnID(ctx context.Context, providerTxnID string) (*paymentDomain.Transaction, error) {
	var out paymentDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("provider_txn_id = ?", providerTxnID).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]paymentDomain.Transaction, error) {
	var out []paymentDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_on ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uint64) ([]paymentDomain.Transaction, error) {
	var out []paymentDomain.Transaction
	res := r.db.WithContext(ctx).
		Joins("JOIN loans ON loans.id = loan_transactions.loan_id").
		Where("loans.user_id = ?", userID).
		Order("loan_transactions.paid_on DESC, loan_transactions.id DESC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) SumPaidByLoanID(ctx context.Context, loanID uint64) (float64, error) {
	return r.sumWhere(ctx, "loan_id = ?", loanID)
}

func (r *TransactionRepository) SumPaid(ctx context.Context) (float64, error) {
	return r.sumWhere(ctx, "1 = 1")
}

func (r *TransactionRepository) SumPaidByUserID(ctx context.Context, userID uint64) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Transaction{}).
		Joins("JOIN loans ON loans.id = loan_transactions.loan_id").
		Where("loans.user_id = ?", userID).
		Select("COALESCE(SUM(loan_transactions.amount_paid), 0)").
		Scan(&total)
	return total, res.Error
}

func (r *TransactionRepository) sumWhere(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Transaction{}).
		Where(query, args...).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&total)
	return total, res.Error
}
