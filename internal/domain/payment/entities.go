package payment

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrDuplicateTxnID = errors.New("provider transaction id already recorded")
)

type TxnStatus string

const (
	TxnPaid TxnStatus = "Paid"
	TxnDue  TxnStatus = "Due"
)

// Transaction is one recorded settlement. Rows are insert-only; the
// ProviderTxnID unique index is the idempotency key that makes a retried
// recording a replay instead of a double-credit.
type Transaction struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"id"`
	LoanID        uint64    `gorm:"column:loan_id;not null;index:idx_transactions_loan" json:"loan_id"`
	ProviderTxnID string    `gorm:"column:provider_txn_id;size:64;not null;uniqueIndex:ux_transactions_provider_txn" json:"transaction_id"`
	AmountPaid    float64   `gorm:"column:amount_paid;type:decimal(12,2)" json:"amount_paid"`
	Status        TxnStatus `gorm:"size:10;default:'Paid'" json:"status"`
	PaidOn        time.Time `gorm:"column:paid_on;autoCreateTime" json:"paid_on"`
}

func (Transaction) TableName() string { return "loan_transactions" }
