package dashboard

import (
	"context"

	"loanhub-backend/internal/domain/loan"
	"loanhub-backend/internal/domain/payment"
	"loanhub-backend/internal/domain/user"
)

// StatCard is one aggregate tile on a dashboard, shaped the way the
// dashboards have always consumed them.
type StatCard struct {
	Key   string  `json:"key"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

type Usecase struct {
	loans loan.Repository
	txns  payment.Repository
	users user.Repository
}

func NewUsecase(loans loan.Repository, txns payment.Repository, users user.Repository) *Usecase {
	return &Usecase{loans: loans, txns: txns, users: users}
}

// AdminStats aggregates across all customers.
func (u *Usecase) AdminStats(ctx context.Context) ([]StatCard, error) {
	customers, err := u.users.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[loan.Status]int{}
	var totalApproved float64
	all, err := u.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		l := &all[i]
		counts[l.Status]++
		if l.Status == loan.StatusApproved || l.Status == loan.StatusPaid {
			totalApproved += l.RequestAmount
		}
	}

	totalPaid, err := u.txns.SumPaid(ctx)
	if err != nil {
		return nil, err
	}

	return []StatCard{
		{Key: "users", Title: "Total Customers", Value: float64(customers)},
		{Key: "pending", Title: "Pending Loans", Value: float64(counts[loan.StatusPending])},
		{Key: "approved", Title: "Approved Loans", Value: float64(counts[loan.StatusApproved] + counts[loan.StatusPaid])},
		{Key: "rejected", Title: "Rejected Loans", Value: float64(counts[loan.StatusRejected])},
		{Key: "approved_amount", Title: "Total Approved Amount", Value: loan.Round2(totalApproved)},
		{Key: "paid", Title: "Total Paid Amount", Value: loan.Round2(totalPaid)},
		{Key: "unpaid", Title: "Total Due Amount", Value: loan.Round2(totalApproved - totalPaid)},
	}, nil
}

// UserStats aggregates one customer's loans.
func (u *Usecase) UserStats(ctx context.Context, userID uint64) ([]StatCard, error) {
	loans, err := u.loans.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var approved, rejected int
	var totalApproved float64
	for i := range loans {
		l := &loans[i]
		switch l.Status {
		case loan.StatusApproved, loan.StatusPaid:
			approved++
			totalApproved += l.RequestAmount
		case loan.StatusRejected:
			rejected++
		}
	}

	totalPaid, err := u.txns.SumPaidByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return []StatCard{
		{Key: "requests", Title: "Total Loan Requests", Value: float64(len(loans))},
		{Key: "approved", Title: "Approved", Value: float64(approved)},
		{Key: "rejected", Title: "Rejected", Value: float64(rejected)},
		{Key: "approved_amount", Title: "Total Approved Amount", Value: loan.Round2(totalApproved)},
		{Key: "paid", Title: "Total Paid", Value: loan.Round2(totalPaid)},
		{Key: "due", Title: "Total Due", Value: loan.Round2(totalApproved - totalPaid)},
	}, nil
}
