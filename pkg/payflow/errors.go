package payflow

import "errors"

// The client-side failure taxonomy. What matters to a caller is not the
// transport detail but which bucket the failure lands in: provider failures
// happen before any money moves, auth failures need a fresh session but keep
// the pending capture, and unavailability is retried until the server
// confirms the recording.
var (
	// ErrUnauthenticated: session missing or expired. Log in again; any
	// pending capture is retained.
	ErrUnauthenticated = errors.New("payflow: unauthenticated")
	// ErrForbidden: session valid but the anti-forgery token or role was
	// rejected. Refresh the CSRF token and retry.
	ErrForbidden = errors.New("payflow: forbidden")
	// ErrValidation: the server rejected the request content. Not retryable.
	ErrValidation = errors.New("payflow: validation rejected")
	// ErrRejected: the server refused the operation for business reasons
	// (wrong loan state, transaction id bound to another loan).
	ErrRejected = errors.New("payflow: rejected")
	// ErrUnavailable: transport failure or 5xx. Retryable.
	ErrUnavailable = errors.New("payflow: service unavailable")

	// ErrProvider: the payment provider declined or failed. No money moved
	// unless a capture id was returned.
	ErrProvider = errors.New("payflow: payment provider error")
	// ErrProviderCancelled: the payer abandoned before capture. No money
	// moved, nothing to reconcile.
	ErrProviderCancelled = errors.New("payflow: payment cancelled by payer")
	// ErrProviderNotReady: the adapter has not finished initializing; the
	// Pay action must not be offered yet.
	ErrProviderNotReady = errors.New("payflow: provider not initialized")

	ErrAttemptInFlight = errors.New("payflow: payment attempt already in flight for loan")
	ErrLoanNotPayable  = errors.New("payflow: loan is not in a payable state")
	ErrLoanNotFound    = errors.New("payflow: loan not found in history")
)

// Retryable reports whether the reconciler should keep retrying after err.
func Retryable(err error) bool { return errors.Is(err, ErrUnavailable) }
