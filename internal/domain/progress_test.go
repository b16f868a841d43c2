package domain

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	loan := &Loan{
		ID:           "loan-1",
		Amount:       120000,
		StartDate:    date("2024-01-15"),
		TermMonths:   12,
		TotalPayment: 127944,
	}
	payments := []Payment{
		{Amount: 10662, Date: date("2024-02-10"), Seq: 1},
		{Amount: 10662, Date: date("2024-03-10"), Seq: 2},
	}

	got := Progress(loan, payments)

	if got.TotalPaid != 21324 {
		t.Errorf("total paid: expected 21324, got %d", got.TotalPaid)
	}
	if got.RemainingAmount != 106620 {
		t.Errorf("remaining: expected 106620, got %d", got.RemainingAmount)
	}
	// 21324 / 127944 * 100 = 16.6667 -> one decimal place
	if got.ProgressPercent != 16.7 {
		t.Errorf("percent: expected 16.7, got %v", got.ProgressPercent)
	}
	if got.PaymentsCount != 2 {
		t.Errorf("payments count: expected 2, got %d", got.PaymentsCount)
	}
	if got.LastPaymentDate == nil || !got.LastPaymentDate.Equal(date("2024-03-10")) {
		t.Errorf("last payment date: expected 2024-03-10, got %v", got.LastPaymentDate)
	}
	// 2024-01-15 + 30 * 12 days
	if got.PlannedLastPaymentDate != "2025-01-09" {
		t.Errorf("planned last payment date: expected 2025-01-09, got %s", got.PlannedLastPaymentDate)
	}
}

func TestProgress_NoPayments(t *testing.T) {
	loan := &Loan{StartDate: date("2024-01-15"), TermMonths: 6, TotalPayment: 6000}

	got := Progress(loan, nil)

	if got.TotalPaid != 0 || got.PaymentsCount != 0 {
		t.Errorf("expected empty progress, got %+v", got)
	}
	if got.ProgressPercent != 0 {
		t.Errorf("percent: expected 0, got %v", got.ProgressPercent)
	}
	if got.LastPaymentDate != nil {
		t.Errorf("last payment date: expected nil, got %v", got.LastPaymentDate)
	}
	if got.RemainingAmount != 6000 {
		t.Errorf("remaining: expected 6000, got %d", got.RemainingAmount)
	}
}

func TestProgress_ZeroTotalPayment(t *testing.T) {
	loan := &Loan{StartDate: date("2024-01-15"), TermMonths: 6}

	got := Progress(loan, []Payment{{Amount: 100, Date: date("2024-02-01")}})

	if got.ProgressPercent != 0 {
		t.Errorf("percent with zero total must be 0, got %v", got.ProgressPercent)
	}
}

func TestProgress_OverpaymentClampsRemaining(t *testing.T) {
	loan := &Loan{StartDate: date("2024-01-15"), TermMonths: 2, TotalPayment: 1000}

	got := Progress(loan, []Payment{{Amount: 1500, Date: date("2024-02-01")}})

	if got.RemainingAmount != 0 {
		t.Errorf("remaining must clamp at zero, got %d", got.RemainingAmount)
	}
	if got.ProgressPercent != 150 {
		t.Errorf("percent is not clamped: expected 150, got %v", got.ProgressPercent)
	}
}

func TestPlannedLastPaymentDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		term  int
		want  string
	}{
		{"one month is thirty days", date("2024-01-01"), 1, "2024-01-31"},
		{"twelve months is 360 days, not a calendar year", date("2024-01-15"), 12, "2025-01-09"},
		{"zero start date degrades to sentinel", time.Time{}, 12, PlannedDateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlannedLastPaymentDate(tt.start, tt.term); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
