package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/adapter/middleware"
	domainLoan "loanhub-backend/internal/domain/loan"
	domainPayment "loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type recordPaymentReq struct {
	TransactionID string  `json:"transaction_id" validate:"required,max=64"`
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
}

// Record is the reconciliation endpoint: the client posts the provider
// capture here and the server settles the loan exactly once per
// transaction_id.
func (h *PaymentHandler) Record(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	loanID, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Record(c.Request().Context(), payment.RecordPaymentInput{
		LoanID:        loanID,
		UserID:        sess.UserID,
		ProviderTxnID: req.TransactionID,
		Amount:        req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainLoan.ErrNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		case errors.Is(err, domainLoan.ErrNotOwner):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "loan does not belong to you"})
		case errors.Is(err, domainLoan.ErrAlreadySettled), errors.Is(err, domainLoan.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainPayment.ErrDuplicateTxnID):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "transaction_id already recorded for another loan"})
		case errors.Is(err, payment.ErrAmountMismatch):
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "amount", Message: "must equal the loan's total with interest"}},
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not record payment"})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "payment": dto})
}

func (h *PaymentHandler) History(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	txns, err := h.uc.History(c.Request().Context(), sess.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load transactions"})
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": txns})
}
