package loan

// DisplayStatus is the single status a caller should render. The stored row
// carries two redundant fields (Status and IsFullyPaid); this projection is
// the one place their precedence is defined.
type DisplayStatus string

const (
	DisplayPending        DisplayStatus = "Pending"
	DisplayApprovedUnpaid DisplayStatus = "Approved-Unpaid"
	DisplayPaid           DisplayStatus = "Paid"
	DisplayRejected       DisplayStatus = "Rejected"
)

// ProjectStatus collapses the dual status fields into one display state.
// A settled flag wins over everything: once money has been recorded the loan
// is Paid no matter what the status column says.
func ProjectStatus(status Status, isFullyPaid bool) DisplayStatus {
	switch {
	case isFullyPaid || status == StatusPaid:
		return DisplayPaid
	case status == StatusApproved:
		return DisplayApprovedUnpaid
	case status == StatusPending:
		return DisplayPending
	default:
		return DisplayRejected
	}
}

// Anomalous reports a contradictory row: rejected yet marked fully paid.
// Callers log these instead of guessing at intent.
func Anomalous(status Status, isFullyPaid bool) bool {
	return status == StatusRejected && isFullyPaid
}

// PayActionAvailable gates the Pay action: only an approved, unpaid loan can
// be paid, and never before the payment provider has finished initializing.
func PayActionAvailable(ds DisplayStatus, providerReady bool) bool {
	return ds == DisplayApprovedUnpaid && providerReady
}
