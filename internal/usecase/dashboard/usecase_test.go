package dashboard

import (
	"context"
	"testing"

	domainLoan "loanhub-backend/internal/domain/loan"
	"loanhub-backend/internal/testutil/loanmock"
	"loanhub-backend/internal/testutil/paymentmock"
	"loanhub-backend/internal/testutil/usermock"
)

func cardValue(t *testing.T, cards []StatCard, key string) float64 {
	t.Helper()
	for _, c := range cards {
		if c.Key == key {
			return c.Value
		}
	}
	t.Fatalf("card %q missing: %+v", key, cards)
	return 0
}

func TestAdminStats(t *testing.T) {
	loans := &loanmock.Repo{
		ListAllFn: func(context.Context) ([]domainLoan.Loan, error) {
			return []domainLoan.Loan{
				{Status: domainLoan.StatusPending, RequestAmount: 500},
				{Status: domainLoan.StatusApproved, RequestAmount: 1000},
				{Status: domainLoan.StatusPaid, RequestAmount: 2000},
				{Status: domainLoan.StatusRejected, RequestAmount: 300},
			}, nil
		},
	}
	txns := &paymentmock.Repo{
		SumPaidFn: func(context.Context) (float64, error) { return 2160, nil },
	}
	users := &usermock.Repo{
		CountCustomersFn: func(context.Context) (int64, error) { return 5, nil },
	}
	uc := NewUsecase(loans, txns, users)

	cards, err := uc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("AdminStats: %v", err)
	}

	if got := cardValue(t, cards, "users"); got != 5 {
		t.Fatalf("customers = %v", got)
	}
	if got := cardValue(t, cards, "pending"); got != 1 {
		t.Fatalf("pending = %v", got)
	}
	// settled loans still count as approved
	if got := cardValue(t, cards, "approved"); got != 2 {
		t.Fatalf("approved = %v", got)
	}
	if got := cardValue(t, cards, "approved_amount"); got != 3000 {
		t.Fatalf("approved amount = %v", got)
	}
	if got := cardValue(t, cards, "unpaid"); got != 840 {
		t.Fatalf("due = %v", got)
	}
}

func TestUserStats(t *testing.T) {
	loans := &loanmock.Repo{
		ListByUserIDFn: func(ctx context.Context, userID uint64) ([]domainLoan.Loan, error) {
			if userID != 7 {
				t.Fatalf("unexpected userID %d", userID)
			}
			return []domainLoan.Loan{
				{Status: domainLoan.StatusApproved, RequestAmount: 1000},
				{Status: domainLoan.StatusRejected, RequestAmount: 400},
				{Status: domainLoan.StatusPending, RequestAmount: 200},
			}, nil
		},
	}
	txns := &paymentmock.Repo{
		SumPaidByUserIDFn: func(context.Context, uint64) (float64, error) { return 0, nil },
	}
	uc := NewUsecase(loans, txns, &usermock.Repo{})

	cards, err := uc.UserStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if got := cardValue(t, cards, "requests"); got != 3 {
		t.Fatalf("requests = %v", got)
	}
	if got := cardValue(t, cards, "approved"); got != 1 {
		t.Fatalf("approved = %v", got)
	}
	if got := cardValue(t, cards, "due"); got != 1000 {
		t.Fatalf("due = %v", got)
	}
}
