package domain

import (
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates. Dates carry no
// time-of-day component anywhere in the system.
const DateLayout = "2006-01-02"

// Loan represents a loan from a lender to a borrower. The terms
// (Amount, InterestRate, StartDate, TermMonths) are immutable after
// creation; MonthlyPayment and TotalPayment are computed once at
// creation time and stored with the loan.
type Loan struct {
	ID             string
	LenderID       string
	BorrowerID     string
	Amount         int64   // principal, smallest currency unit
	InterestRate   float64 // nominal annual rate, percent
	StartDate      time.Time
	TermMonths     int
	MonthlyPayment int64
	TotalPayment   int64
	CreatedAt      time.Time
}

// Payment represents a single repayment against a loan. Payments are
// immutable once created; they can only be deleted.
type Payment struct {
	ID          string
	LoanID      string
	Amount      int64
	Date        time.Time
	ReceiptPath string
	ReceiptName string
	// Seq is the insertion sequence number assigned by storage. It is
	// the stable tiebreak for payments sharing a date: recalculation
	// must be deterministic and payment dates are not unique.
	Seq       int64
	CreatedAt time.Time
}

// SortPayments orders payments ascending by payment date, ties broken
// by insertion sequence.
func SortPayments(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].Date.Equal(payments[j].Date) {
			return payments[i].Seq < payments[j].Seq
		}
		return payments[i].Date.Before(payments[j].Date)
	})
}

// TotalPaid sums payment amounts.
func TotalPaid(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// MonthsPassed returns the whole-month calendar difference between the
// loan start date and now. Day-of-month is ignored: a payment on the
// 31st still counts the month as fully passed.
func MonthsPassed(start, now time.Time) int {
	return (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
