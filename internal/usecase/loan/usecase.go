package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"loanhub-backend/internal/domain/category"
	"loanhub-backend/internal/domain/loan"
	"loanhub-backend/internal/domain/uow"
)

type Usecase struct {
	loanRepo     loan.Repository
	categoryRepo category.Repository
	uow          uow.UnitOfWork
}

func NewUsecase(loans loan.Repository, categories category.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loanRepo: loans, categoryRepo: categories, uow: tx}
}

// Apply creates a Pending loan request. One pending request per user at a
// time; a second application is rejected until the first is processed.
func (u *Usecase) Apply(ctx context.Context, in ApplyLoanInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, errors.New("invalid input")
	}
	if in.TermYears == 0 {
		in.TermYears = 1
	}

	cat, err := u.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrNotFound
		}
		return nil, err
	}

	pending, err := u.loanRepo.GetPendingByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %d", loan.ErrPendingExists, pending.ID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	l := &loan.Loan{
		UserID:        in.UserID,
		CategoryID:    &cat.ID,
		Reason:        in.Reason,
		RequestAmount: loan.Round2(in.Amount),
		TermYears:     in.TermYears,
		Status:        loan.StatusPending,
		RequestDate:   time.Now().UTC(),
	}
	if err := u.loanRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	return &LoanDTO{
		ID:          l.ID,
		Status:      string(l.Status),
		IsFullyPaid: l.IsFullyPaid,
		RequestDate: l.RequestDate,
	}, nil
}

// Process moves a Pending loan to Approved or Rejected under a row lock.
func (u *Usecase) Process(ctx context.Context, loanID uint64, action ProcessAction) (*LoanDTO, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, loan.ErrInvalidTransition
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return loan.ErrInvalidTransition
		}
		now := time.Now().UTC()
		if action == ActionApprove {
			l.Status = loan.StatusApproved
			l.ApprovedDate = &now
		} else {
			l.Status = loan.StatusRejected
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = &LoanDTO{ID: l.ID, Status: string(l.Status), IsFullyPaid: l.IsFullyPaid, RequestDate: l.RequestDate}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// History projects the caller's loans into the payload the dashboard renders:
// interest figures computed server-side, dual status fields collapsed.
func (u *Usecase) History(ctx context.Context, userID uint64) ([]HistoryItem, error) {
	loans, err := u.loanRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryItem, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		out = append(out, HistoryItem{
			ID:                l.ID,
			Category:          CategoryRef{Name: l.CategoryName()},
			RequestAmount:     l.RequestAmount,
			TermYears:         l.TermYears,
			InterestAmount:    l.InterestAmount(),
			TotalWithInterest: l.TotalWithInterest(),
			Status:            string(l.Status),
			DisplayStatus:     string(loan.ProjectStatus(l.Status, l.IsFullyPaid)),
			IsFullyPaid:       l.IsFullyPaid,
			RequestDate:       l.RequestDate.UTC().Format("2006-01-02"),
		})
	}
	return out, nil
}

// ListByStatus backs the admin pending/approved/rejected tables.
func (u *Usecase) ListByStatus(ctx context.Context, status loan.Status) ([]AdminItem, error) {
	loans, err := u.loanRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toAdminItems(loans), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]AdminItem, error) {
	loans, err := u.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toAdminItems(loans), nil
}

func toAdminItems(loans []loan.Loan) []AdminItem {
	out := make([]AdminItem, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		out = append(out, AdminItem{
			ID:          l.ID,
			Username:    l.Username(),
			Category:    l.CategoryName(),
			Amount:      l.RequestAmount,
			TermYears:   l.TermYears,
			Status:      string(loan.ProjectStatus(l.Status, l.IsFullyPaid)),
			RequestDate: l.RequestDate.UTC().Format("2006-01-02"),
		})
	}
	return out
}
