package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"loanhub-backend/internal/adapter/middleware"
	domainLoan "loanhub-backend/internal/domain/loan"
	domainPayment "loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/domain/uow"
	"loanhub-backend/internal/testutil/loanmock"
	"loanhub-backend/internal/testutil/paymentmock"
	"loanhub-backend/internal/testutil/uowmock"
	"loanhub-backend/internal/usecase/auth"
	uc "loanhub-backend/internal/usecase/payment"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// payContext builds a context for POST /pay-loan/:loan_id/ with a session.
func payContext(e *echo.Echo, body *bytes.Reader, loanID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/pay-loan/"+loanID+"/", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	middleware.SetSession(c, &auth.Session{UserID: 7, Username: "alice"})
	return c, rec
}

// paymentUsecase wires the usecase over mocks holding the given loan.
func paymentUsecase(l *domainLoan.Loan, txns *paymentmock.Repo) *uc.Usecase {
	loans := &loanmock.Repo{
		SaveFn: func(context.Context, *domainLoan.Loan) error { return nil },
	}
	tx := &uowmock.UoW{
		WithinLoanTxFn: func(ctx context.Context, loanID uint64, fn func(r uow.Repos, l2 *domainLoan.Loan) error) error {
			if l == nil {
				return gorm.ErrRecordNotFound
			}
			return fn(uow.Repos{Loans: loans, Transactions: txns}, l)
		},
	}
	return uc.NewUsecase(txns, tx)
}

func freshTxns() *paymentmock.Repo {
	return &paymentmock.Repo{
		GetByProviderTxnIDFn: func(context.Context, string) (*domainPayment.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, tr *domainPayment.Transaction) error {
			tr.ID = 101
			return nil
		},
	}
}

func approvedLoan() *domainLoan.Loan {
	return &domainLoan.Loan{
		ID: 42, UserID: 7, RequestAmount: 1000, TermYears: 1,
		Status: domainLoan.StatusApproved,
	}
}

func TestRecordPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	h := NewPaymentHandler(paymentUsecase(approvedLoan(), freshTxns()))

	c, rec := payContext(e, mustJSON(map[string]any{"transaction_id": "CAP-1", "amount": 1080}), "42")
	if err := h.Record(c); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Status  string        `json:"status"`
		Payment uc.PaymentDTO `json:"payment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != "success" || got.Payment.ProviderTxnID != "CAP-1" || got.Payment.Replayed {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRecordPayment_ReplayReturns200(t *testing.T) {
	e := newEchoWithValidator()
	l := approvedLoan()
	l.Status = domainLoan.StatusPaid
	l.IsFullyPaid = true
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(context.Context, string) (*domainPayment.Transaction, error) {
			return &domainPayment.Transaction{ID: 101, LoanID: 42, ProviderTxnID: "CAP-1", AmountPaid: 1080, PaidOn: time.Now().UTC()}, nil
		},
	}
	h := NewPaymentHandler(paymentUsecase(l, txns))

	c, rec := payContext(e, mustJSON(map[string]any{"transaction_id": "CAP-1", "amount": 1080}), "42")
	if err := h.Record(c); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("replay must be 200, got %d", rec.Code)
	}
	var got struct {
		Payment uc.PaymentDTO `json:"payment"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if !got.Payment.Replayed {
		t.Fatalf("replay flag not set: %+v", got)
	}
}

func TestRecordPayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		loan     *domainLoan.Loan
		body     map[string]any
		wantCode int
	}{
		{
			name:     "loan not found",
			loan:     nil,
			body:     map[string]any{"transaction_id": "CAP-1", "amount": 1080},
			wantCode: stdhttp.StatusNotFound,
		},
		{
			name: "not the owner",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.UserID = 99
				return l
			}(),
			body:     map[string]any{"transaction_id": "CAP-1", "amount": 1080},
			wantCode: stdhttp.StatusForbidden,
		},
		{
			name: "already settled",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.IsFullyPaid = true
				return l
			}(),
			body:     map[string]any{"transaction_id": "CAP-9", "amount": 1080},
			wantCode: stdhttp.StatusConflict,
		},
		{
			name: "pending loan",
			loan: func() *domainLoan.Loan {
				l := approvedLoan()
				l.Status = domainLoan.StatusPending
				return l
			}(),
			body:     map[string]any{"transaction_id": "CAP-1", "amount": 1080},
			wantCode: stdhttp.StatusConflict,
		},
		{
			name:     "wrong amount",
			loan:     approvedLoan(),
			body:     map[string]any{"transaction_id": "CAP-1", "amount": 999},
			wantCode: stdhttp.StatusUnprocessableEntity,
		},
		{
			name:     "missing transaction id fails validation",
			loan:     approvedLoan(),
			body:     map[string]any{"amount": 1080},
			wantCode: stdhttp.StatusUnprocessableEntity,
		},
		{
			name:     "amount with three decimals fails validation",
			loan:     approvedLoan(),
			body:     map[string]any{"transaction_id": "CAP-1", "amount": 1080.005},
			wantCode: stdhttp.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := newEchoWithValidator()
			h := NewPaymentHandler(paymentUsecase(tt.loan, freshTxns()))
			c, rec := payContext(e, mustJSON(tt.body), "42")
			if err := h.Record(c); err != nil {
				t.Fatalf("Record error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRecordPayment_DuplicateForOtherLoanIs409(t *testing.T) {
	e := newEchoWithValidator()
	txns := &paymentmock.Repo{
		GetByProviderTxnIDFn: func(context.Context, string) (*domainPayment.Transaction, error) {
			return &domainPayment.Transaction{ID: 5, LoanID: 999, ProviderTxnID: "CAP-1"}, nil
		},
	}
	h := NewPaymentHandler(paymentUsecase(approvedLoan(), txns))

	c, rec := payContext(e, mustJSON(map[string]any{"transaction_id": "CAP-1", "amount": 1080}), "42")
	if err := h.Record(c); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRecordPayment_BadLoanIDAndBody(t *testing.T) {
	e := newEchoWithValidator()
	h := NewPaymentHandler(paymentUsecase(approvedLoan(), freshTxns()))

	c, rec := payContext(e, mustJSON(map[string]any{"transaction_id": "CAP-1", "amount": 1080}), "abc")
	if err := h.Record(c); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad loan_id: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/pay-loan/42/", strings.NewReader(`{"transaction_id":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req, rec2)
	c2.SetParamNames("loan_id")
	c2.SetParamValues("42")
	middleware.SetSession(c2, &auth.Session{UserID: 7})
	if err := h.Record(c2); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec2.Code != stdhttp.StatusBadRequest {
		t.Fatalf("broken json: status = %d, want 400", rec2.Code)
	}
}
