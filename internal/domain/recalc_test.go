package domain

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func zeroRateLoan() *Loan {
	return &Loan{
		ID:             "loan-1",
		Amount:         12000,
		InterestRate:   0,
		StartDate:      date("2024-01-15"),
		TermMonths:     12,
		MonthlyPayment: 1000,
		TotalPayment:   12000,
	}
}

func TestRecalculate_ZeroRateAfterOnePayment(t *testing.T) {
	loan := zeroRateLoan()
	payments := []Payment{
		{ID: "p1", LoanID: loan.ID, Amount: 1000, Date: date("2024-02-10"), Seq: 1},
	}

	got := Recalculate(loan, payments, date("2024-02-20"))

	if got.RemainingAmount != 11000 {
		t.Errorf("remaining: expected 11000, got %d", got.RemainingAmount)
	}
	if got.MonthsRemaining != 11 {
		t.Errorf("months remaining: expected 11, got %d", got.MonthsRemaining)
	}
	if got.NewMonthlyPayment != 1000 {
		t.Errorf("new monthly payment: expected 1000, got %d", got.NewMonthlyPayment)
	}
	if !got.Recalculated {
		t.Error("expected recalculated flag")
	}
	if got.Breakdown.Principal != 1000 || got.Breakdown.Interest != 0 || got.Breakdown.Total != 1000 {
		t.Errorf("unexpected breakdown: %+v", got.Breakdown)
	}
}

func TestRecalculate_FullyRepaid(t *testing.T) {
	loan := zeroRateLoan()
	payments := []Payment{
		{Amount: 7000, Date: date("2024-02-01"), Seq: 1},
		{Amount: 5000, Date: date("2024-03-01"), Seq: 2},
	}

	got := Recalculate(loan, payments, date("2024-03-15"))

	want := RecalculationResult{Recalculated: true}
	if got != want {
		t.Errorf("expected all-zero result, got %+v", got)
	}
}

func TestRecalculate_OverpaymentClampsToZero(t *testing.T) {
	loan := zeroRateLoan()
	payments := []Payment{{Amount: 20000, Date: date("2024-02-01"), Seq: 1}}

	got := Recalculate(loan, payments, date("2024-02-15"))

	if got.RemainingAmount != 0 {
		t.Errorf("remaining must never be negative, got %d", got.RemainingAmount)
	}
	if got.MonthsRemaining != 0 || got.NewMonthlyPayment != 0 {
		t.Errorf("expected all-zero result, got %+v", got)
	}
}

func TestRecalculate_TermExhaustedBalloon(t *testing.T) {
	loan := zeroRateLoan()
	payments := []Payment{{Amount: 7000, Date: date("2024-06-01"), Seq: 1}}

	// 13 calendar months after start, one past the 12 month term.
	got := Recalculate(loan, payments, date("2025-02-01"))

	if got.RemainingAmount != 5000 {
		t.Errorf("remaining: expected 5000, got %d", got.RemainingAmount)
	}
	if got.MonthsRemaining != 0 {
		t.Errorf("months remaining: expected 0, got %d", got.MonthsRemaining)
	}
	if got.NewMonthlyPayment != 5000 {
		t.Errorf("balloon payment: expected 5000, got %d", got.NewMonthlyPayment)
	}
	if got.Breakdown.Principal != 5000 || got.Breakdown.Interest != 0 {
		t.Errorf("balloon must be all principal: %+v", got.Breakdown)
	}
}

func TestRecalculate_InterestBearingBreakdown(t *testing.T) {
	loan := &Loan{
		ID:             "loan-2",
		Amount:         120000,
		InterestRate:   12,
		StartDate:      date("2024-01-15"),
		TermMonths:     12,
		MonthlyPayment: 10662,
		TotalPayment:   127944,
	}
	payments := []Payment{{Amount: 10662, Date: date("2024-02-14"), Seq: 1}}

	got := Recalculate(loan, payments, date("2024-02-20"))

	if got.RemainingAmount != 117282 {
		t.Fatalf("remaining: expected 117282, got %d", got.RemainingAmount)
	}
	if got.MonthsRemaining != 11 {
		t.Fatalf("months remaining: expected 11, got %d", got.MonthsRemaining)
	}

	// Next installment interest is remaining * monthly rate:
	// 117282 * 0.01 = 1172.82, rounded half-up.
	if got.Breakdown.Interest != 1173 {
		t.Errorf("interest component: expected 1173, got %d", got.Breakdown.Interest)
	}
	if got.Breakdown.Total != got.NewMonthlyPayment {
		t.Errorf("breakdown total %d should equal installment %d", got.Breakdown.Total, got.NewMonthlyPayment)
	}

	// Components are rounded independently; they must still account for
	// the installment to within one unit.
	sum := got.Breakdown.Principal + got.Breakdown.Interest
	if diff := sum - got.NewMonthlyPayment; diff < -1 || diff > 1 {
		t.Errorf("principal %d + interest %d is off installment %d by more than one unit",
			got.Breakdown.Principal, got.Breakdown.Interest, got.NewMonthlyPayment)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	loan := zeroRateLoan()
	payments := []Payment{
		{Amount: 1000, Date: date("2024-02-10"), Seq: 1},
		{Amount: 500, Date: date("2024-03-10"), Seq: 2},
	}
	now := date("2024-03-20")

	first := Recalculate(loan, payments, now)
	second := Recalculate(loan, payments, now)

	if first != second {
		t.Errorf("recalculation is not idempotent: %+v vs %+v", first, second)
	}
}

func TestRecalculate_PaymentMonotonicity(t *testing.T) {
	loan := zeroRateLoan()
	now := date("2024-04-02")

	payments := []Payment{{Amount: 1000, Date: date("2024-02-10"), Seq: 1}}
	before := Recalculate(loan, payments, now)

	payments = append(payments, Payment{Amount: 700, Date: date("2024-03-10"), Seq: 2})
	after := Recalculate(loan, payments, now)

	if after.RemainingAmount > before.RemainingAmount {
		t.Errorf("adding a payment increased remaining: %d -> %d",
			before.RemainingAmount, after.RemainingAmount)
	}

	// Deleting it again restores the previous remaining.
	restored := Recalculate(loan, payments[:1], now)
	if restored.RemainingAmount != before.RemainingAmount {
		t.Errorf("deleting a payment did not restore remaining: %d vs %d",
			restored.RemainingAmount, before.RemainingAmount)
	}
}

func TestRecalculate_SkippedMonthsCompressTerm(t *testing.T) {
	loan := zeroRateLoan()

	// No payments at all for five calendar months: the remaining term
	// shrinks anyway and the installment re-levels upward.
	got := Recalculate(loan, nil, date("2024-06-20"))

	if got.MonthsRemaining != 7 {
		t.Fatalf("months remaining: expected 7, got %d", got.MonthsRemaining)
	}
	if got.RemainingAmount != 12000 {
		t.Fatalf("remaining: expected 12000, got %d", got.RemainingAmount)
	}
	// 12000 / 7 = 1714.29
	if got.NewMonthlyPayment != 1714 {
		t.Errorf("new monthly payment: expected 1714, got %d", got.NewMonthlyPayment)
	}
}

func TestMonthsPassed(t *testing.T) {
	tests := []struct {
		start string
		now   string
		want  int
	}{
		{"2024-01-15", "2024-01-20", 0},
		{"2024-01-31", "2024-02-01", 1}, // day of month is ignored
		{"2024-01-15", "2024-02-20", 1},
		{"2023-11-01", "2024-02-01", 3},
		{"2024-01-15", "2025-01-14", 12},
	}

	for _, tt := range tests {
		if got := MonthsPassed(date(tt.start), date(tt.now)); got != tt.want {
			t.Errorf("MonthsPassed(%s, %s): expected %d, got %d", tt.start, tt.now, tt.want, got)
		}
	}
}
