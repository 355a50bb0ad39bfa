package loan

import "math"

// AnnualInterestRate is the flat rate the ledger charges per year of term.
// The server computed 8% simple interest in every deployment observed; the
// client uses the same function so the two can never drift.
const AnnualInterestRate = 0.08

// Round2 rounds a currency amount to 2 decimal places.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// InterestAmount computes simple interest on the principal over the term.
// A missing or zero term is treated as one year.
func InterestAmount(principal float64, termYears uint) float64 {
	if termYears == 0 {
		termYears = 1
	}
	return Round2(principal * AnnualInterestRate * float64(termYears))
}

// TotalWithInterest is the amount due to settle the loan in full.
func TotalWithInterest(principal float64, termYears uint) float64 {
	return Round2(principal + InterestAmount(principal, termYears))
}

func (l *Loan) InterestAmount() float64    { return InterestAmount(l.RequestAmount, l.TermYears) }
func (l *Loan) TotalWithInterest() float64 { return TotalWithInterest(l.RequestAmount, l.TermYears) }
