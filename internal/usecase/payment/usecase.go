package payment

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainLoan "loanhub-backend/internal/domain/loan"
	domainPayment "loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/domain/uow"
)

// amountTolerance absorbs decimal-vs-float rounding between the provider
// capture value and the computed amount due.
const amountTolerance = 0.01

type Usecase struct {
	txnRepo domainPayment.Repository
	uow     uow.UnitOfWork
}

func NewUsecase(txns domainPayment.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{txnRepo: txns, uow: tx}
}

// Record persists a provider-confirmed capture against the loan ledger.
// The provider transaction id is the idempotency key: a retried recording
// replays the stored outcome instead of writing a second row. The loan row
// is locked for the whole decision so state can only advance once.
func (u *Usecase) Record(ctx context.Context, in RecordPaymentInput) (*PaymentDTO, error) {
	if in.ProviderTxnID == "" || in.Amount <= 0 {
		return nil, ErrAmountMismatch
	}

	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.UserID != in.UserID {
			return domainLoan.ErrNotOwner
		}

		// Replay check first: a duplicate submit must succeed with the
		// recorded outcome even when the loan already reads Paid.
		existing, err := r.Transactions.GetByProviderTxnID(ctx, in.ProviderTxnID)
		switch {
		case err == nil:
			if existing.LoanID != l.ID {
				return domainPayment.ErrDuplicateTxnID
			}
			dto = toDTO(existing, true)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if domainLoan.Anomalous(l.Status, l.IsFullyPaid) {
			logrus.WithFields(logrus.Fields{
				"loan_id": l.ID,
				"status":  l.Status,
			}).Warn("payment: contradictory loan state (rejected but fully paid)")
		}

		switch domainLoan.ProjectStatus(l.Status, l.IsFullyPaid) {
		case domainLoan.DisplayPaid:
			return domainLoan.ErrAlreadySettled
		case domainLoan.DisplayApprovedUnpaid:
			// fall through to record
		default:
			return domainLoan.ErrInvalidTransition
		}

		due := l.TotalWithInterest()
		if math.Abs(in.Amount-due) > amountTolerance {
			return ErrAmountMismatch
		}

		t := &domainPayment.Transaction{
			LoanID:        l.ID,
			ProviderTxnID: in.ProviderTxnID,
			AmountPaid:    domainLoan.Round2(in.Amount),
			Status:        domainPayment.TxnPaid,
			PaidOn:        time.Now().UTC(),
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}

		l.Status = domainLoan.StatusPaid
		l.IsFullyPaid = true
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(t, false)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// History lists the caller's settlements, newest first.
func (u *Usecase) History(ctx context.Context, userID uint64) ([]TransactionDTO, error) {
	txns, err := u.txnRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionDTO{
			ID:            t.ID,
			LoanID:        t.LoanID,
			ProviderTxnID: t.ProviderTxnID,
			AmountPaid:    t.AmountPaid,
			Status:        string(t.Status),
			PaidOn:        t.PaidOn.UTC().Format("2006-01-02 15:04"),
		})
	}
	return out, nil
}

func toDTO(t *domainPayment.Transaction, replayed bool) *PaymentDTO {
	return &PaymentDTO{
		TransactionID: t.ID,
		LoanID:        t.LoanID,
		ProviderTxnID: t.ProviderTxnID,
		AmountPaid:    t.AmountPaid,
		Status:        string(t.Status),
		PaidOn:        t.PaidOn,
		Replayed:      replayed,
	}
}
