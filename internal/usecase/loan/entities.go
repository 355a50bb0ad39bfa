package loan

import "time"

type ApplyLoanInput struct {
	UserID     uint64
	CategoryID uint64
	Reason     string
	Amount     float64
	TermYears  uint
}

type ProcessAction string

const (
	ActionApprove ProcessAction = "approve"
	ActionReject  ProcessAction = "reject"
)

// HistoryItem mirrors the loan-history payload the dashboard consumes:
// stored fields plus the derived interest figures and projected status.
type HistoryItem struct {
	ID                uint64       `json:"id"`
	Category          CategoryRef  `json:"category"`
	RequestAmount     float64      `json:"request_amount"`
	TermYears         uint         `json:"term_years"`
	InterestAmount    float64      `json:"interest_amount"`
	TotalWithInterest float64      `json:"total_with_interest"`
	Status            string       `json:"status"`
	DisplayStatus     string       `json:"display_status"`
	IsFullyPaid       bool         `json:"is_fully_paid"`
	RequestDate       string       `json:"request_date"`
}

type CategoryRef struct {
	Name string `json:"name"`
}

type AdminItem struct {
	ID          uint64  `json:"id"`
	Username    string  `json:"username"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	TermYears   uint    `json:"term_years"`
	Status      string  `json:"status"`
	RequestDate string  `json:"date"`
}

type LoanDTO struct {
	ID          uint64    `json:"id"`
	Status      string    `json:"status"`
	IsFullyPaid bool      `json:"is_fully_paid"`
	RequestDate time.Time `json:"request_date"`
}
