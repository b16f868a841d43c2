package domain

import "errors"

var (
	// Schedule input errors
	ErrInvalidAmount = errors.New("principal must be positive")
	ErrInvalidRate   = errors.New("interest rate must not be negative")
	ErrInvalidTerm   = errors.New("term must be a positive number of months")

	// Lookup errors
	ErrLoanNotFound     = errors.New("loan not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrBorrowerNotFound = errors.New("borrower not found")
	ErrUserNotFound     = errors.New("user not found")

	// Payment errors
	ErrReceiptRequired    = errors.New("a receipt document is required for a payment")
	ErrUnsupportedReceipt = errors.New("unsupported receipt file type")
)
