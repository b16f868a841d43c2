package domain

import (
	"errors"
	"testing"
)

func TestComputeSchedule(t *testing.T) {
	tests := []struct {
		name        string
		principal   int64
		rate        float64
		termMonths  int
		wantMonthly int64
		wantTotal   int64
		wantErr     error
	}{
		{
			name:        "standard annuity 12% over 12 months",
			principal:   120000,
			rate:        12,
			termMonths:  12,
			wantMonthly: 10662,
			wantTotal:   127944,
		},
		{
			name:        "zero rate is straight-line",
			principal:   12000,
			rate:        0,
			termMonths:  12,
			wantMonthly: 1000,
			wantTotal:   12000,
		},
		{
			name:        "half-unit installment rounds up",
			principal:   100,
			rate:        0,
			termMonths:  8,
			wantMonthly: 13, // 12.5
			wantTotal:   104,
		},
		{
			name:        "single month term",
			principal:   5000,
			rate:        24,
			termMonths:  1,
			wantMonthly: 5100, // 5000 * 1.02
			wantTotal:   5100,
		},
		{
			name:       "zero term is invalid",
			principal:  1000,
			rate:       10,
			termMonths: 0,
			wantErr:    ErrInvalidTerm,
		},
		{
			name:       "negative principal is invalid",
			principal:  -1,
			rate:       10,
			termMonths: 12,
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "zero principal is invalid",
			principal:  0,
			rate:       10,
			termMonths: 12,
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "negative rate is invalid",
			principal:  1000,
			rate:       -0.5,
			termMonths: 12,
			wantErr:    ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSchedule(tt.principal, tt.rate, tt.termMonths)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MonthlyPayment != tt.wantMonthly {
				t.Errorf("monthly payment: expected %d, got %d", tt.wantMonthly, got.MonthlyPayment)
			}
			if got.TotalPayment != tt.wantTotal {
				t.Errorf("total payment: expected %d, got %d", tt.wantTotal, got.TotalPayment)
			}
			if got.TotalInterest != got.TotalPayment-tt.principal {
				t.Errorf("total interest %d does not equal total %d minus principal %d",
					got.TotalInterest, got.TotalPayment, tt.principal)
			}
		})
	}
}

func TestComputeSchedule_TotalMatchesInstallments(t *testing.T) {
	// total == monthly * term must hold exactly for any valid input.
	cases := []struct {
		principal int64
		rate      float64
		term      int
	}{
		{120000, 12, 12},
		{1_000_000, 7.5, 60},
		{999, 0, 7},
		{50_000, 19.9, 36},
		{1, 100, 1},
	}

	for _, c := range cases {
		s, err := ComputeSchedule(c.principal, c.rate, c.term)
		if err != nil {
			t.Fatalf("ComputeSchedule(%d, %v, %d): %v", c.principal, c.rate, c.term, err)
		}
		if s.TotalPayment != s.MonthlyPayment*int64(c.term) {
			t.Errorf("ComputeSchedule(%d, %v, %d): total %d != monthly %d * term %d",
				c.principal, c.rate, c.term, s.TotalPayment, s.MonthlyPayment, c.term)
		}
		if s.TotalInterest != s.TotalPayment-c.principal {
			t.Errorf("ComputeSchedule(%d, %v, %d): interest %d != total - principal",
				c.principal, c.rate, c.term, s.TotalInterest)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1.49999, 1},
		{12.5, 13},
		{10661.8547, 10662},
		{99.999999, 100},
	}

	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
