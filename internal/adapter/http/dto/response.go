package dto

import (
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID             string  `json:"id"`
	LenderID       string  `json:"lender_id"`
	BorrowerID     string  `json:"borrower_id"`
	Amount         int64   `json:"amount"`
	InterestRate   float64 `json:"interest_rate"`
	StartDate      string  `json:"start_date"`
	TermMonths     int     `json:"term_months"`
	MonthlyPayment int64   `json:"monthly_payment"`
	TotalPayment   int64   `json:"total_payment"`
	CreatedAt      string  `json:"created_at"`
}

// LoanFromDomain converts a domain loan to response format.
func LoanFromDomain(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:             loan.ID,
		LenderID:       loan.LenderID,
		BorrowerID:     loan.BorrowerID,
		Amount:         loan.Amount,
		InterestRate:   loan.InterestRate,
		StartDate:      domain.FormatDate(loan.StartDate),
		TermMonths:     loan.TermMonths,
		MonthlyPayment: loan.MonthlyPayment,
		TotalPayment:   loan.TotalPayment,
		CreatedAt:      loan.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ProgressResponse represents a loan's repayment progress.
// LastPaymentDate is null until the first payment lands.
type ProgressResponse struct {
	TotalPaid              int64   `json:"total_paid"`
	RemainingAmount        int64   `json:"remaining_amount"`
	ProgressPercent        float64 `json:"progress_percent"`
	PaymentsCount          int     `json:"payments_count"`
	LastPaymentDate        *string `json:"last_payment_date"`
	PlannedLastPaymentDate string  `json:"planned_last_payment_date"`
}

// ProgressFromDomain converts a progress summary to response format.
func ProgressFromDomain(p domain.ProgressSummary) ProgressResponse {
	resp := ProgressResponse{
		TotalPaid:              p.TotalPaid,
		RemainingAmount:        p.RemainingAmount,
		ProgressPercent:        p.ProgressPercent,
		PaymentsCount:          p.PaymentsCount,
		PlannedLastPaymentDate: p.PlannedLastPaymentDate,
	}
	if p.LastPaymentDate != nil {
		formatted := domain.FormatDate(*p.LastPaymentDate)
		resp.LastPaymentDate = &formatted
	}
	return resp
}

// LoanWithProgressResponse is a loan together with its progress and
// the name of the other party, as shown in listings.
type LoanWithProgressResponse struct {
	LoanResponse
	Progress         ProgressResponse `json:"progress"`
	CounterpartyName string           `json:"counterparty_name"`
}

// LoanWithProgressFromUseCase converts a listing entry to response
// format.
func LoanWithProgressFromUseCase(l *usecase.LoanWithProgress) LoanWithProgressResponse {
	return LoanWithProgressResponse{
		LoanResponse:     LoanFromDomain(l.Loan),
		Progress:         ProgressFromDomain(l.Progress),
		CounterpartyName: l.CounterpartyName,
	}
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID          string `json:"id"`
	LoanID      string `json:"loan_id"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	ReceiptName string `json:"receipt_name"`
}

// PaymentFromDomain converts a domain payment to response format.
func PaymentFromDomain(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		LoanID:      p.LoanID,
		Amount:      p.Amount,
		Date:        domain.FormatDate(p.Date),
		ReceiptName: p.ReceiptName,
	}
}

// PaymentsFromDomain converts a slice of payments.
func PaymentsFromDomain(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, PaymentFromDomain(&payments[i]))
	}
	return out
}

// AddPaymentResponse is returned after recording a payment: the
// payment itself plus the loan's fresh recalculation.
type AddPaymentResponse struct {
	Payment       PaymentResponse            `json:"payment"`
	Recalculation domain.RecalculationResult `json:"recalculation"`
}

// ScheduleResponse represents a computed installment plan.
type ScheduleResponse struct {
	MonthlyPayment int64 `json:"monthly_payment"`
	TotalPayment   int64 `json:"total_payment"`
	TotalInterest  int64 `json:"total_interest"`
}

// ScheduleFromDomain converts a domain schedule to response format.
func ScheduleFromDomain(s domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		MonthlyPayment: s.MonthlyPayment,
		TotalPayment:   s.TotalPayment,
		TotalInterest:  s.TotalInterest,
	}
}

// UserResponse represents a user in API responses. The password hash
// never leaves the server.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// UserFromDomain converts a domain user to response format.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     string(u.Role),
		Active:   u.Active,
	}
}

// DeleteBorrowerResponse reports what a borrower deletion removed.
type DeleteBorrowerResponse struct {
	Username     string `json:"username"`
	DeletedLoans int    `json:"deleted_loans"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
