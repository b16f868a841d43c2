package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Schedule is the amortized repayment plan for a loan: the level
// monthly installment, the total across the term, and the interest
// share of that total. All values are rounded half-up to whole
// currency units.
type Schedule struct {
	MonthlyPayment int64
	TotalPayment   int64
	TotalInterest  int64
}

// ComputeSchedule computes a fixed monthly payment for the given
// principal, nominal annual rate (percent) and term using the standard
// annuity formula. A zero rate degenerates to straight-line repayment.
//
// Intermediate arithmetic stays in float64; rounding happens only on
// the outputs. TotalPayment is derived from the rounded installment so
// that TotalPayment == MonthlyPayment * termMonths holds exactly.
func ComputeSchedule(principal int64, annualRatePercent float64, termMonths int) (Schedule, error) {
	if principal <= 0 {
		return Schedule{}, ErrInvalidAmount
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return Schedule{}, ErrInvalidRate
	}
	if termMonths <= 0 {
		return Schedule{}, ErrInvalidTerm
	}

	monthly := RoundHalfUp(rawMonthlyPayment(float64(principal), annualRatePercent, termMonths))
	total := monthly * int64(termMonths)

	return Schedule{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total - principal,
	}, nil
}

// rawMonthlyPayment is the unrounded annuity installment. Callers round
// exactly once, at their own output boundary.
func rawMonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	rate := MonthlyRate(annualRatePercent)
	n := float64(termMonths)

	if rate == 0 {
		return principal / n
	}

	factor := math.Pow(1+rate, n)
	return principal * (rate * factor) / (factor - 1)
}

// MonthlyRate converts a nominal annual percentage rate to a monthly
// fraction. Never rounded.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// RoundHalfUp rounds to the nearest whole currency unit with halves
// rounding up. decimal's Round is half-away-from-zero, which matches
// half-up for the non-negative amounts this system deals in.
func RoundHalfUp(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}
