package rules

import (
	"testing"
	"time"
)

func TestRecomputeFeeState(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name        string
		total, paid float64
		due         time.Time
		wantStatus  FeeStatus
		wantPending float64
	}{
		{"fully paid past due", 100, 100, past, FeePaid, 0},
		{"partially paid before due", 100, 40, future, FeePartiallyPaid, 60},
		{"partially paid past due stays partial", 100, 40, past, FeePartiallyPaid, 60},
		{"unpaid past due", 100, 0, past, FeeOverdue, 100},
		{"unpaid before due", 100, 0, future, FeePending, 100},
		{"overpaid still resolves to paid", 100, 150, past, FeePaid, -50},
		{"zero fee counts as paid", 0, 0, future, FeePaid, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := RecomputeFeeState(tc.total, tc.paid, tc.due, now)
			if state.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", state.Status, tc.wantStatus)
			}
			if state.PendingAmount != tc.wantPending {
				t.Errorf("pending = %v, want %v", state.PendingAmount, tc.wantPending)
			}
		})
	}
}

// The balance invariant must hold after every step of any payment sequence.
func TestRecomputeFeeStateAfterPaymentSequence(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	due := now.Add(30 * 24 * time.Hour)

	const total = 500.0
	payments := []float64{50, 125, 25, 300, 100}

	paid := 0.0
	for i, p := range payments {
		paid += p
		state := RecomputeFeeState(total, paid, due, now)

		if state.PendingAmount != total-paid {
			t.Fatalf("after payment %d: pending = %v, want %v", i, state.PendingAmount, total-paid)
		}
		switch {
		case paid >= total && state.Status != FeePaid:
			t.Fatalf("after payment %d: status = %q, want paid", i, state.Status)
		case paid > 0 && paid < total && state.Status != FeePartiallyPaid:
			t.Fatalf("after payment %d: status = %q, want partially_paid", i, state.Status)
		}
	}
}

func TestValidFeeStatus(t *testing.T) {
	for _, s := range []FeeStatus{FeePending, FeePartiallyPaid, FeePaid, FeeOverdue} {
		if !ValidFeeStatus(s) {
			t.Errorf("ValidFeeStatus(%q) = false", s)
		}
	}
	if ValidFeeStatus("refunded") {
		t.Error("ValidFeeStatus accepted unknown status")
	}
}
