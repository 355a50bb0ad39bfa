package loan

import (
	"math"
	"testing"
)

func TestInterestAmount(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		termYears uint
		want      float64
	}{
		{"one year", 1000, 1, 80},
		{"three years", 1000, 3, 240},
		{"zero term treated as one", 1000, 0, 80},
		{"rounds to cents", 123.45, 1, 9.88}, // 9.876 -> 9.88
		{"small principal", 0.10, 1, 0.01},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := InterestAmount(tt.principal, tt.termYears)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("InterestAmount(%v, %d) = %v, want %v", tt.principal, tt.termYears, got, tt.want)
			}
		})
	}
}

func TestTotalWithInterest(t *testing.T) {
	if got := TotalWithInterest(5000, 2); math.Abs(got-5800) > 1e-9 {
		t.Fatalf("TotalWithInterest(5000, 2) = %v, want 5800", got)
	}
	if got := TotalWithInterest(5000, 0); math.Abs(got-5400) > 1e-9 {
		t.Fatalf("TotalWithInterest(5000, 0) = %v, want 5400 (term defaults to 1)", got)
	}
}

func TestLoanInterestMethods(t *testing.T) {
	l := &Loan{RequestAmount: 2500, TermYears: 2}
	if got := l.InterestAmount(); math.Abs(got-400) > 1e-9 {
		t.Fatalf("InterestAmount = %v, want 400", got)
	}
	if got := l.TotalWithInterest(); math.Abs(got-2900) > 1e-9 {
		t.Fatalf("TotalWithInterest = %v, want 2900", got)
	}
}

func TestCategoryName(t *testing.T) {
	l := &Loan{}
	if got := l.CategoryName(); got != "N/A" {
		t.Fatalf("nil category renders %q, want N/A", got)
	}
}
