package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/adapter/middleware"
	domainCategory "loanhub-backend/internal/domain/category"
	domainLoan "loanhub-backend/internal/domain/loan"
	"loanhub-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	Category  uint64  `json:"category"   validate:"required"`
	Reason    string  `json:"reason"     validate:"required"`
	Amount    float64 `json:"amount"     validate:"required,gt=0,dec2"`
	TermYears uint    `json:"term_years" validate:"omitempty,gte=1,lte=30"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyLoanInput{
		UserID:     sess.UserID,
		CategoryID: req.Category,
		Reason:     req.Reason,
		Amount:     req.Amount,
		TermYears:  req.TermYears,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainCategory.ErrNotFound):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown category"})
		case errors.Is(err, domainLoan.ErrPendingExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "a pending loan request already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not submit loan request"})
		}
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "Loan request submitted.", "loan": dto})
}

func (h *LoanHandler) History(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	items, err := h.uc.History(c.Request().Context(), sess.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load loan history"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LoanHandler) Process(c echo.Context) error {
	loanID, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	action := loan.ProcessAction(c.Param("action"))
	dto, err := h.uc.Process(c.Request().Context(), loanID, action)
	if err != nil {
		switch {
		case errors.Is(err, domainLoan.ErrNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		case errors.Is(err, domainLoan.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan is not pending"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not process loan"})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "status": dto.Status})
}

func (h *LoanHandler) ListAll(c echo.Context) error {
	items, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load loans"})
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": items})
}

func (h *LoanHandler) listByStatus(c echo.Context, status domainLoan.Status) error {
	items, err := h.uc.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load loans"})
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": items})
}

func (h *LoanHandler) ListPending(c echo.Context) error {
	return h.listByStatus(c, domainLoan.StatusPending)
}
func (h *LoanHandler) ListApproved(c echo.Context) error {
	return h.listByStatus(c, domainLoan.StatusApproved)
}
func (h *LoanHandler) ListRejected(c echo.Context) error {
	return h.listByStatus(c, domainLoan.StatusRejected)
}
