package rules

import "time"

// FeeStatus is the derived payment state of a fee record.
type FeeStatus string

const (
	FeePending       FeeStatus = "pending"
	FeePartiallyPaid FeeStatus = "partially_paid"
	FeePaid          FeeStatus = "paid"
	FeeOverdue       FeeStatus = "overdue"
)

// FeeState holds the derived fields of a fee record. Both are pure
// functions of (totalFee, paidAmount, dueDate, now) and must never be
// accepted from a client.
type FeeState struct {
	PendingAmount float64
	Status        FeeStatus
}

// RecomputeFeeState derives the outstanding balance and status.
// Status precedence, first match wins:
//
//  1. paid >= total          -> paid
//  2. paid > 0               -> partially_paid
//  3. now past the due date  -> overdue
//  4. otherwise              -> pending
//
// PendingAmount is not clamped: an overpaid record carries a negative
// balance and still resolves to paid. Callers must re-run this on every
// write to totalFee, paidAmount or dueDate, including payment appends.
func RecomputeFeeState(totalFee, paidAmount float64, dueDate, now time.Time) FeeState {
	state := FeeState{PendingAmount: totalFee - paidAmount}

	switch {
	case paidAmount >= totalFee:
		state.Status = FeePaid
	case paidAmount > 0:
		state.Status = FeePartiallyPaid
	case now.After(dueDate):
		state.Status = FeeOverdue
	default:
		state.Status = FeePending
	}

	return state
}

// ValidFeeStatus reports whether s is one of the recognized statuses.
func ValidFeeStatus(s FeeStatus) bool {
	switch s {
	case FeePending, FeePartiallyPaid, FeePaid, FeeOverdue:
		return true
	}
	return false
}
