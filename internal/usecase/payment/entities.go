package payment

import (
	"errors"
	"time"
)

var ErrAmountMismatch = errors.New("captured amount does not match amount due")

type RecordPaymentInput struct {
	LoanID        uint64
	UserID        uint64
	ProviderTxnID string
	Amount        float64
}

type PaymentDTO struct {
	TransactionID uint64    `json:"id"`
	LoanID        uint64    `json:"loan_id"`
	ProviderTxnID string    `json:"transaction_id"`
	AmountPaid    float64   `json:"amount_paid"`
	Status        string    `json:"status"`
	PaidOn        time.Time `json:"paid_on"`
	// Replayed is true when this request matched an already-recorded
	// settlement and no new row was written.
	Replayed bool `json:"replayed"`
}

type TransactionDTO struct {
	ID            uint64  `json:"id"`
	LoanID        uint64  `json:"loan_id"`
	ProviderTxnID string  `json:"transaction_id"`
	AmountPaid    float64 `json:"amount_paid"`
	Status        string  `json:"status"`
	PaidOn        string  `json:"paid_on"`
}
