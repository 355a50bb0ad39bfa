package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	domainLoan "loanhub-backend/internal/domain/loan"
	domainPayment "loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/domain/uow"
	"loanhub-backend/internal/testutil/loanmock"
	"loanhub-backend/internal/testutil/paymentmock"
	"loanhub-backend/internal/testutil/uowmock"
)

func approvedLoan() *domainLoan.Loan {
	return &domainLoan.Loan{
		ID:            42,
		UserID:        7,
		RequestAmount: 1000,
		TermYears:     1,
		Status:        domainLoan.StatusApproved,
		IsFullyPaid:   false,
	}
}

// lockTx wires a uowmock that hands fn the given loan and repos, standing in
// for the row-locked transaction.
func lockTx(l *domainLoan.Loan, loans *loanmock.Repo, txns *paymentmock.Repo) *uowmock.UoW {
	return &uowmock.UoW{
		WithinLoanTxFn: func(ctx context.Context, loanID uint64, fn func(r uow.Repos, l2 *domainLoan.Loan) error) error {
			if l == nil {
				return gorm.ErrRecordNotFound
			}
			return fn(uow.Repos{Loans: loans, Transactions: txns}, l)
		},
	}
}

func TestRecord_HappyPath(t *testing.T) {
	l := approvedLoan()
	var created *domainPayment.Transaction
	var saved *domainLoan.Loan

	loans := &loanmock.Repo{
		SaveFn: func(ctx context.Context, l2 *domainLoan.Loan) error {
			saved = l2
			return nil
		},
	}
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(ctx context.Context, id string) (*domainPayment.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, tr *domainPayment.Transaction) error {
			tr.ID = 101
			created = tr
			return nil
		},
	}
	uc := NewUsecase(txns, lockTx(l, loans, txns))

	dto, err := uc.Record(context.Background(), RecordPaymentInput{
		LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if dto == nil || dto.Replayed {
		t.Fatalf("expected fresh recording, got %+v", dto)
	}
	if created == nil || created.LoanID != 42 || created.ProviderTxnID != "CAP-1" {
		t.Fatalf("transaction not created as expected: %+v", created)
	}
	if created.AmountPaid != 1080 {
		t.Fatalf("amount paid = %v, want 1080", created.AmountPaid)
	}
	if saved == nil || saved.Status != domainLoan.StatusPaid || !saved.IsFullyPaid {
		t.Fatalf("loan not settled: %+v", saved)
	}
}

func TestRecord_ReplaySameTxnID(t *testing.T) {
	l := approvedLoan()
	l.Status = domainLoan.StatusPaid
	l.IsFullyPaid = true

	createCalls := 0
	saveCalls := 0
	loans := &loanmock.Repo{
		SaveFn: func(context.Context, *domainLoan.Loan) error {
			saveCalls++
			return nil
		},
	}
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(ctx context.Context, id string) (*domainPayment.Transaction, error) {
			return &domainPayment.Transaction{
				ID: 101, LoanID: 42, ProviderTxnID: "CAP-1",
				AmountPaid: 1080, Status: domainPayment.TxnPaid, PaidOn: time.Now().UTC(),
			}, nil
		},
		CreateFn: func(context.Context, *domainPayment.Transaction) error {
			createCalls++
			return nil
		},
	}
	uc := NewUsecase(txns, lockTx(l, loans, txns))

	dto, err := uc.Record(context.Background(), RecordPaymentInput{
		LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080,
	})
	if err != nil {
		t.Fatalf("replay must succeed, got %v", err)
	}
	if !dto.Replayed {
		t.Fatalf("expected replayed DTO")
	}
	if dto.TransactionID != 101 || dto.ProviderTxnID != "CAP-1" {
		t.Fatalf("replayed DTO mismatch: %+v", dto)
	}
	if createCalls != 0 || saveCalls != 0 {
		t.Fatalf("replay must not write: creates=%d saves=%d", createCalls, saveCalls)
	}
}

func TestRecord_TxnIDBelongsToOtherLoan(t *testing.T) {
	l := approvedLoan()
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(ctx context.Context, id string) (*domainPayment.Transaction, error) {
			return &domainPayment.Transaction{ID: 5, LoanID: 999, ProviderTxnID: "CAP-1"}, nil
		},
	}
	uc := NewUsecase(txns, lockTx(l, &loanmock.Repo{}, txns))

	_, err := uc.Record(context.Background(), RecordPaymentInput{
		LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080,
	})
	if !errors.Is(err, domainPayment.ErrDuplicateTxnID) {
		t.Fatalf("want ErrDuplicateTxnID, got %v", err)
	}
}

func TestRecord_Errors(t *testing.T) {
	notFoundTxns := func() *paymentmock.Repo {
		return &paymentmock.Repo{
			GetByProviderTxnIDFn: func(context.Context, string) (*domainPayment.Transaction, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
	}

	tests := []struct {
		name    string
		loan    *domainLoan.Loan
		in      RecordPaymentInput
		wantErr error
	}{
		{
			name:    "loan not found",
			loan:    nil,
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080},
			wantErr: domainLoan.ErrNotFound,
		},
		{
			name: "not the owner",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.UserID = 99
				return l
			}(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080},
			wantErr: domainLoan.ErrNotOwner,
		},
		{
			name: "already settled",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.IsFullyPaid = true
				return l
			}(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-2", Amount: 1080},
			wantErr: domainLoan.ErrAlreadySettled,
		},
		{
			name: "pending loan cannot be paid",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.Status = domainLoan.StatusPending
				return l
			}(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080},
			wantErr: domainLoan.ErrInvalidTransition,
		},
		{
			name: "rejected loan cannot be paid",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.Status = domainLoan.StatusRejected
				return l
			}(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1080},
			wantErr: domainLoan.ErrInvalidTransition,
		},
		{
			name:    "amount short of total due",
			loan:    approvedLoan(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "CAP-1", Amount: 1000},
			wantErr: ErrAmountMismatch,
		},
		{
			name:    "empty transaction id",
			loan:    approvedLoan(),
			in:      RecordPaymentInput{LoanID: 42, UserID: 7, ProviderTxnID: "", Amount: 1080},
			wantErr: ErrAmountMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			txns := notFoundTxns()
			uc := NewUsecase(txns, lockTx(tt.loan, &loanmock.Repo{}, txns))
			_, err := uc.Record(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecord_AmountWithinTolerance(t *testing.T) {
	l := approvedLoan()
	loans := &loanmock.Repo{SaveFn: func(context.Context, *domainLoan.Loan) error { return nil }}
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(context.Context, string) (*domainPayment.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := NewUsecase(txns, lockTx(l, loans, txns))

	// one cent off in either direction is accepted
	if _, err := uc.Record(context.Background(), RecordPaymentInput{
		LoanID: 42, UserID: 7, ProviderTxnID: "CAP-3", Amount: 1080.01,
	}); err != nil {
		t.Fatalf("1080.01 within tolerance, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	paidOn := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
	txns := &paymentmock.Repo{
		ListByUserIDFn: func(ctx context.Context, userID uint64) ([]domainPayment.Transaction, error) {
			if userID != 7 {
				t.Fatalf("unexpected userID %d", userID)
			}
			return []domainPayment.Transaction{
				{ID: 1, LoanID: 42, ProviderTxnID: "CAP-1", AmountPaid: 1080, Status: domainPayment.TxnPaid, PaidOn: paidOn},
			}, nil
		},
	}
	uc := NewUsecase(txns, &uowmock.UoW{})

	got, err := uc.History(context.Background(), 7)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 row, got %d", len(got))
	}
	if got[0].PaidOn != "2025-03-14 09:26" {
		t.Fatalf("PaidOn formatted as %q", got[0].PaidOn)
	}
}
