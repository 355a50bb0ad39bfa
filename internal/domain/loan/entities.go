package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"loanhub-backend/internal/domain/category"
	"loanhub-backend/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusPaid     Status = "Paid"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrNotOwner          = errors.New("loan does not belong to user")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrAlreadySettled    = errors.New("loan already settled")
	ErrPendingExists     = errors.New("borrower already has a pending loan")
)

type Loan struct {
	ID            uint64             `gorm:"primaryKey;column:id" json:"id"`
	UserID        uint64             `gorm:"column:user_id;not null;index:idx_loans_user" json:"-"`
	User          *user.User         `gorm:"foreignKey:UserID" json:"-"`
	CategoryID    *uint64            `gorm:"column:category_id;index" json:"-"`
	Category      *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reason        string             `gorm:"type:text" json:"reason"`
	RequestAmount float64            `gorm:"column:request_amount;type:decimal(12,2)" json:"request_amount"`
	TermYears     uint               `gorm:"column:term_years;default:1" json:"term_years"`
	Status        Status             `gorm:"type:enum('Pending','Approved','Rejected','Paid');default:'Pending'" json:"status"`
	IsFullyPaid   bool               `gorm:"column:is_fully_paid;default:false" json:"is_fully_paid"`
	RequestDate   time.Time          `gorm:"column:request_date;autoCreateTime" json:"request_date"`
	ApprovedDate  *time.Time         `gorm:"column:approved_date" json:"approved_date,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"-"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// CategoryName is what listings render; the original UI shows "N/A" for
// loans whose category is gone.
func (l *Loan) CategoryName() string {
	if l.Category == nil {
		return "N/A"
	}
	return l.Category.Name
}

func (l *Loan) Username() string {
	if l.User == nil {
		return ""
	}
	return l.User.Username
}
