package payflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"loanhub-backend/internal/domain/loan"
)

// State of one payment attempt. Transitions only move forward:
// Idle → OrderCreated → Captured → Reconciled, with Cancelled reachable
// before capture and Failed from anywhere after.
type State string

const (
	StateIdle         State = "Idle"
	StateOrderCreated State = "OrderCreated"
	StateCaptured     State = "Captured"
	StateReconciled   State = "Reconciled"
	StateCancelled    State = "Cancelled"
	StateFailed       State = "Failed"
)

// ApproveFunc represents payer approval between order creation and capture.
// Returning ErrProviderCancelled means the payer walked away.
type ApproveFunc func(ctx context.Context, h OrderHandle) error

// Flow is a single payment attempt for a single loan. One Flow per attempt;
// a finished flow is never reused.
type Flow struct {
	loanID    uint64
	amountDue float64

	provider Provider
	api      *APIClient
	journal  *Journal
	log      *logrus.Entry

	state   State
	order   OrderHandle
	capture Capture
	failure error
}

func newFlow(loanID uint64, amountDue float64, provider Provider, api *APIClient, journal *Journal) *Flow {
	return &Flow{
		loanID:    loanID,
		amountDue: loan.Round2(amountDue),
		provider:  provider,
		api:       api,
		journal:   journal,
		state:     StateIdle,
		log:       logrus.WithFields(logrus.Fields{"component": "payflow.flow", "loan_id": loanID}),
	}
}

func (f *Flow) State() State     { return f.state }
func (f *Flow) Capture() Capture { return f.capture }

// Err returns what moved the flow to Failed.
func (f *Flow) Err() error { return f.failure }

func (f *Flow) fail(err error) error {
	f.state = StateFailed
	f.failure = err
	return err
}

// CreateOrder authorizes the amount due at the provider.
func (f *Flow) CreateOrder(ctx context.Context) error {
	if f.state != StateIdle {
		return fmt.Errorf("payflow: create order in state %s", f.state)
	}
	h, err := f.provider.CreateOrder(ctx, f.amountDue)
	if err != nil {
		return f.fail(err)
	}
	f.order = h
	f.state = StateOrderCreated
	return nil
}

// CaptureAfterApproval runs payer approval then captures. A payer abandon
// lands in Cancelled: nothing moved, nothing to reconcile. Once the capture
// succeeds the pending payment is journaled immediately — before any server
// call — so a crash between capture and reconciliation cannot lose it.
func (f *Flow) CaptureAfterApproval(ctx context.Context, approve ApproveFunc) error {
	if f.state != StateOrderCreated {
		return fmt.Errorf("payflow: capture in state %s", f.state)
	}
	if err := approve(ctx, f.order); err != nil {
		if errors.Is(err, ErrProviderCancelled) {
			f.state = StateCancelled
			return err
		}
		return f.fail(err)
	}
	cap, err := f.provider.CaptureOrder(ctx, f.order)
	if err != nil {
		if errors.Is(err, ErrProviderCancelled) {
			f.state = StateCancelled
			return err
		}
		return f.fail(err)
	}
	f.capture = cap
	f.state = StateCaptured

	if err := f.journal.Record(ctx, &PendingPayment{
		ProviderTxnID: cap.ProviderTxnID,
		LoanID:        f.loanID,
		Amount:        cap.Amount,
	}); err != nil {
		// capture stands; reconcile proceeds but a crash here can lose the id
		f.log.WithError(err).Error("journal write failed after capture")
	}
	return nil
}

// Reconcile reports the capture to the server. On success the journal entry
// is resolved. On any failure the entry stays: the money has moved and only
// a confirmed recording may discard the transaction id.
func (f *Flow) Reconcile(ctx context.Context) error {
	if f.state != StateCaptured {
		return fmt.Errorf("payflow: reconcile in state %s", f.state)
	}
	err := f.api.RecordPayment(ctx, f.loanID, f.capture.ProviderTxnID, f.capture.Amount)
	if err != nil {
		_ = f.journal.MarkAttempt(ctx, f.capture.ProviderTxnID, err.Error())
		f.log.WithError(err).Warn("reconciliation failed; capture retained for retry")
		return f.fail(err)
	}
	if err := f.journal.Resolve(ctx, f.capture.ProviderTxnID); err != nil {
		f.log.WithError(err).Warn("journal resolve failed")
	}
	f.state = StateReconciled
	return nil
}

// Coordinator owns payment attempts. It enforces at most one in-flight
// attempt per loan and gates the Pay action on loan state and provider
// readiness.
type Coordinator struct {
	provider Provider
	api      *APIClient
	journal  *Journal

	mu       sync.Mutex
	inFlight map[uint64]bool
}

func NewCoordinator(provider Provider, api *APIClient, journal *Journal) *Coordinator {
	return &Coordinator{
		provider: provider,
		api:      api,
		journal:  journal,
		inFlight: make(map[uint64]bool),
	}
}

// CanPay reports whether the Pay action should be offered for the loan.
func (co *Coordinator) CanPay(v *LoanView) bool {
	return loan.PayActionAvailable(v.DisplayStatus(), co.provider.Ready())
}

// Pay runs one full attempt: fetch the loan, authorize the due amount,
// capture after approval, reconcile. The loan's total with interest is the
// only amount ever authorized.
func (co *Coordinator) Pay(ctx context.Context, loanID uint64, approve ApproveFunc) error {
	if !co.provider.Ready() {
		return ErrProviderNotReady
	}
	if !co.acquire(loanID) {
		return ErrAttemptInFlight
	}
	defer co.release(loanID)

	loans, err := co.api.LoanHistory(ctx)
	if err != nil {
		return err
	}
	var target *LoanView
	for i := range loans {
		if loans[i].ID == loanID {
			target = &loans[i]
			break
		}
	}
	if target == nil {
		return ErrLoanNotFound
	}
	if !co.CanPay(target) {
		return ErrLoanNotPayable
	}

	due, _ := target.AmountDue()
	f := newFlow(loanID, due, co.provider, co.api, co.journal)
	if err := f.CreateOrder(ctx); err != nil {
		return err
	}
	if err := f.CaptureAfterApproval(ctx, approve); err != nil {
		return err
	}
	return f.Reconcile(ctx)
}

func (co *Coordinator) acquire(loanID uint64) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.inFlight[loanID] {
		return false
	}
	co.inFlight[loanID] = true
	return true
}

func (co *Coordinator) release(loanID uint64) {
	co.mu.Lock()
	defer co.mu.Unlock()
	delete(co.inFlight, loanID)
}
