package domain

import "time"

// PaymentBreakdown splits the next scheduled installment into its
// principal and interest components.
type PaymentBreakdown struct {
	Principal int64 `json:"principal"`
	Interest  int64 `json:"interest"`
	Total     int64 `json:"total"`
}

// RecalculationResult is the derived forward view of a loan after its
// payment history is applied. It is never persisted; it is always a
// pure function of (loan, ordered payments, evaluation date).
type RecalculationResult struct {
	RemainingAmount   int64            `json:"remaining_amount"`
	NewMonthlyPayment int64            `json:"new_monthly_payment"`
	MonthsRemaining   int              `json:"months_remaining"`
	Recalculated      bool             `json:"recalculated"`
	Breakdown         PaymentBreakdown `json:"payment_breakdown"`
}

// Recalculate re-amortizes a loan over its remaining balance and
// remaining calendar months as of now.
//
// The remaining term is driven by calendar months elapsed since the
// loan start, not by how many payments were made: skipped months
// compress the remaining term exactly as made ones do, and every
// payment (on schedule, early, or partial) re-levels the forward
// installment. Payments must already be in (date, seq) order; only
// their sum matters here, so order does not change the result, but the
// ordering contract keeps the derived views deterministic everywhere.
func Recalculate(loan *Loan, payments []Payment, now time.Time) RecalculationResult {
	remaining := loan.TotalPayment - TotalPaid(payments)
	if remaining < 0 {
		// Over-payment is absorbed, never surfaced as negative.
		remaining = 0
	}

	// Fully repaid: everything collapses to zero.
	if remaining == 0 {
		return RecalculationResult{Recalculated: true}
	}

	monthsRemaining := loan.TermMonths - MonthsPassed(loan.StartDate, now)
	if monthsRemaining < 0 {
		monthsRemaining = 0
	}

	// Term exhausted with a balance left: the whole remainder is due as
	// a single balloon payment, all principal.
	if monthsRemaining == 0 {
		return RecalculationResult{
			RemainingAmount:   remaining,
			NewMonthlyPayment: remaining,
			MonthsRemaining:   0,
			Recalculated:      true,
			Breakdown: PaymentBreakdown{
				Principal: remaining,
				Interest:  0,
				Total:     remaining,
			},
		}
	}

	rate := MonthlyRate(loan.InterestRate)
	rawMonthly := rawMonthlyPayment(float64(remaining), loan.InterestRate, monthsRemaining)
	monthly := RoundHalfUp(rawMonthly)

	var breakdown PaymentBreakdown
	if rate == 0 {
		breakdown = PaymentBreakdown{
			Principal: monthly,
			Interest:  0,
			Total:     monthly,
		}
	} else {
		// Next installment only; the split shifts every month as the
		// balance shrinks. Components are rounded independently, so
		// principal+interest may differ from the installment by one unit.
		interest := float64(remaining) * rate
		breakdown = PaymentBreakdown{
			Principal: RoundHalfUp(rawMonthly - interest),
			Interest:  RoundHalfUp(interest),
			Total:     monthly,
		}
	}

	return RecalculationResult{
		RemainingAmount:   remaining,
		NewMonthlyPayment: monthly,
		MonthsRemaining:   monthsRemaining,
		Recalculated:      true,
		Breakdown:         breakdown,
	}
}
