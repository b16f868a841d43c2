package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedDateUnknown is the sentinel returned when the planned last
// payment date cannot be derived from the loan's start date. Progress
// aggregation degrades to it instead of failing.
const PlannedDateUnknown = "unknown"

// ProgressSummary is the display-level view of how far along a loan is.
type ProgressSummary struct {
	TotalPaid              int64      `json:"total_paid"`
	RemainingAmount        int64      `json:"remaining_amount"`
	ProgressPercent        float64    `json:"progress_percent"`
	PaymentsCount          int        `json:"payments_count"`
	LastPaymentDate        *time.Time `json:"-"`
	PlannedLastPaymentDate string     `json:"planned_last_payment_date"`
}

// Progress aggregates raw payment records into a repayment summary.
// Payments must be in (date, seq) ascending order.
func Progress(loan *Loan, payments []Payment) ProgressSummary {
	totalPaid := TotalPaid(payments)

	remaining := loan.TotalPayment - totalPaid
	if remaining < 0 {
		remaining = 0
	}

	var percent float64
	if loan.TotalPayment > 0 {
		percent = roundPercent(float64(totalPaid) / float64(loan.TotalPayment) * 100)
	}

	var lastPayment *time.Time
	if len(payments) > 0 {
		d := payments[len(payments)-1].Date
		lastPayment = &d
	}

	return ProgressSummary{
		TotalPaid:              totalPaid,
		RemainingAmount:        remaining,
		ProgressPercent:        percent,
		PaymentsCount:          len(payments),
		LastPaymentDate:        lastPayment,
		PlannedLastPaymentDate: PlannedLastPaymentDate(loan.StartDate, loan.TermMonths),
	}
}

// PlannedLastPaymentDate approximates the final scheduled payment date
// as start + 30 days per term month. This 30-day convention is
// deliberately different from the calendar-month arithmetic the
// recalculation engine uses for months remaining; the two must not be
// unified (see MonthsPassed).
func PlannedLastPaymentDate(start time.Time, termMonths int) string {
	if start.IsZero() {
		return PlannedDateUnknown
	}
	return FormatDate(start.AddDate(0, 0, 30*termMonths))
}

// roundPercent rounds to one decimal place, half up.
func roundPercent(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
