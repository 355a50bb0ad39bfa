package payflow

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PendingPayment is a capture the provider confirmed but the server has not
// recorded yet. Money has moved; the row survives process restarts and is
// removed only once the server acknowledges the recording.
type PendingPayment struct {
	ProviderTxnID string    `gorm:"primaryKey;size:64"`
	LoanID        uint64    `gorm:"not null"`
	Amount        float64   `gorm:"not null"`
	CapturedAt    time.Time `gorm:"not null"`
	Attempts      uint
	LastError     string
}

func (PendingPayment) TableName() string { return "pending_payments" }

// Journal is the durable client-side store of unreconciled captures.
type Journal struct{ db *gorm.DB }

// OpenJournal opens (and migrates) the journal database at path. Use a real
// file in production; ":memory:" only ever makes sense in tests.
func OpenJournal(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&PendingPayment{}); err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Record stores a capture before the first reconciliation attempt. Recording
// the same capture twice is a no-op.
func (j *Journal) Record(ctx context.Context, p *PendingPayment) error {
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now().UTC()
	}
	return j.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}

// Pending lists unreconciled captures, oldest first.
func (j *Journal) Pending(ctx context.Context) ([]PendingPayment, error) {
	var out []PendingPayment
	res := j.db.WithContext(ctx).Order("captured_at ASC").Find(&out)
	return out, res.Error
}

// MarkAttempt bumps the attempt counter after a failed reconciliation.
func (j *Journal) MarkAttempt(ctx context.Context, providerTxnID, lastError string) error {
	return j.db.WithContext(ctx).
		Model(&PendingPayment{}).
		Where("provider_txn_id = ?", providerTxnID).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}

// Resolve removes a capture the server has confirmed recording.
func (j *Journal) Resolve(ctx context.Context, providerTxnID string) error {
	return j.db.WithContext(ctx).
		Delete(&PendingPayment{}, "provider_txn_id = ?", providerTxnID).Error
}
