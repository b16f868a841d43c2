package dto

import (
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// CreateLoanRequest represents a request to create a loan. Amount
// arrives as free text and is sanitized to a whole currency amount.
type CreateLoanRequest struct {
	BorrowerID   string  `json:"borrower_id"`
	Amount       string  `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	StartDate    string  `json:"start_date"`
	TermMonths   int     `json:"term_months"`
}

// ToUseCaseInput converts to use case input. The start date must be
// in YYYY-MM-DD form; parse errors surface as validation failures.
func (r *CreateLoanRequest) ToUseCaseInput(lenderID string) (usecase.CreateLoanInput, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return usecase.CreateLoanInput{}, domain.ErrInvalidStartDate
	}

	return usecase.CreateLoanInput{
		LenderID:     lenderID,
		BorrowerID:   r.BorrowerID,
		Amount:       domain.CleanAmount(r.Amount),
		InterestRate: r.InterestRate,
		StartDate:    start,
		TermMonths:   r.TermMonths,
	}, nil
}

// PreviewScheduleRequest represents a schedule preview request.
// Nothing is persisted; amount is sanitized like loan creation.
type PreviewScheduleRequest struct {
	Amount       string  `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

// ToUseCaseInput converts to use case input.
func (r *PreviewScheduleRequest) ToUseCaseInput() usecase.ComputeScheduleInput {
	return usecase.ComputeScheduleInput{
		Amount:       domain.CleanAmount(r.Amount),
		InterestRate: r.InterestRate,
		TermMonths:   r.TermMonths,
	}
}

// CreateBorrowerRequest represents a request to create a borrower
// account.
type CreateBorrowerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBorrowerRequest) ToUseCaseInput() usecase.CreateBorrowerInput {
	return usecase.CreateBorrowerInput{
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddPaymentForm holds the parsed multipart fields of a payment
// submission. The receipt file itself travels separately.
type AddPaymentForm struct {
	Amount string
	Date   string
}

// ToUseCaseInput converts the form fields to use case input; the
// caller attaches the receipt stream.
func (f *AddPaymentForm) ToUseCaseInput(loanID string) (usecase.AddPaymentInput, error) {
	var paid time.Time
	if f.Date != "" {
		parsed, err := domain.ParseDate(f.Date)
		if err != nil {
			return usecase.AddPaymentInput{}, domain.ErrInvalidStartDate
		}
		paid = parsed
	}

	return usecase.AddPaymentInput{
		LoanID: loanID,
		Amount: domain.CleanAmount(f.Amount),
		Date:   paid,
	}, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
