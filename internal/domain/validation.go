package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors
var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidFullName  = errors.New("invalid full name")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
	ErrUsernameTaken    = errors.New("username is already taken")
)

// Validation constants
const (
	MaxLoanAmount     = 1_000_000_000_000 // 1 trillion smallest units
	MaxInterestRate   = 100.0             // percent per year
	MaxTermMonths     = 600               // 50 years
	MinUsernameLength = 3
	MinFullNameLength = 2
	MinPasswordLength = 4
	MaxPasswordLength = 128
)

// ValidateLoanTerms rejects malformed loan creation input before
// anything is persisted. Nothing is ever silently coerced here; amount
// sanitization (CleanAmount) happens at the boundary, before this.
func ValidateLoanTerms(amount int64, ratePercent float64, termMonths int, startDate time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > MaxLoanAmount {
		return fmt.Errorf("%w: exceeds maximum of %d", ErrInvalidAmount, int64(MaxLoanAmount))
	}
	if ratePercent < 0 {
		return ErrInvalidRate
	}
	if ratePercent > MaxInterestRate {
		return fmt.Errorf("%w: exceeds maximum of %.0f%%", ErrInvalidRate, MaxInterestRate)
	}
	if termMonths <= 0 {
		return ErrInvalidTerm
	}
	if termMonths > MaxTermMonths {
		return fmt.Errorf("%w: exceeds maximum of %d months", ErrInvalidTerm, MaxTermMonths)
	}
	if startDate.IsZero() {
		return ErrInvalidStartDate
	}
	return nil
}

// ValidateUsername validates a login name.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidUsername, MinUsernameLength)
	}
	return nil
}

// ValidateFullName validates a display name.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinFullNameLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidFullName, MinFullNameLength)
	}
	return nil
}

// ValidatePassword validates password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}
	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
