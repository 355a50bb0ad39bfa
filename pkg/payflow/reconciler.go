package payflow

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig shapes the backoff between reconciliation attempts.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 5,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

func (c RetryConfig) delay(attempt int) time.Duration {
	d := float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt))
	if d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.Jitter {
		d += d * 0.1 * rand.Float64()
	}
	return time.Duration(d)
}

// Reconciler drains the journal: every pending capture is re-submitted until
// the server confirms it. Auth failures stop the run (a fresh session is
// needed) but never discard entries; only confirmed recordings are resolved.
type Reconciler struct {
	journal *Journal
	api     *APIClient
	cfg     RetryConfig
	log     *logrus.Entry
}

func NewReconciler(journal *Journal, api *APIClient, cfg RetryConfig) *Reconciler {
	return &Reconciler{
		journal: journal,
		api:     api,
		cfg:     cfg,
		log:     logrus.WithField("component", "payflow.reconciler"),
	}
}

// Drain attempts every pending capture once through the backoff schedule.
// Returns the first auth error encountered, nil otherwise (entries that
// still failed remain journaled for the next run).
func (r *Reconciler) Drain(ctx context.Context) error {
	pending, err := r.journal.Pending(ctx)
	if err != nil {
		return err
	}
	for i := range pending {
		p := &pending[i]
		if err := r.submit(ctx, p); err != nil {
			if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrForbidden) {
				r.log.WithError(err).Warn("reconciliation needs a fresh session; pending captures retained")
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// stays journaled; next Drain picks it up
			continue
		}
	}
	return nil
}

func (r *Reconciler) submit(ctx context.Context, p *PendingPayment) error {
	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		err := r.api.RecordPayment(ctx, p.LoanID, p.ProviderTxnID, p.Amount)
		if err == nil {
			if err := r.journal.Resolve(ctx, p.ProviderTxnID); err != nil {
				r.log.WithError(err).Warn("journal resolve failed")
			}
			r.log.WithFields(logrus.Fields{
				"loan_id":        p.LoanID,
				"transaction_id": p.ProviderTxnID,
				"attempts":       attempt + 1,
			}).Info("pending capture reconciled")
			return nil
		}
		lastErr = err
		_ = r.journal.MarkAttempt(ctx, p.ProviderTxnID, err.Error())

		if !Retryable(err) {
			return err
		}
		if attempt == r.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.delay(attempt)):
		}
	}
	return lastErr
}

// Run drains on an interval until the context ends. Meant to be started once
// at client startup so captures stranded by a crash or reload are replayed.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := r.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.log.WithError(err).Debug("drain incomplete")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
