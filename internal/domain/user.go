package domain

import (
	"errors"
	"time"
)

// User represents a system user.
type User struct {
	ID             string
	Username       string
	FullName       string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents a user's side of the lending relationship.
type Role string

const (
	// RoleLender records loans, manages borrowers, deletes loans.
	RoleLender Role = "lender"

	// RoleBorrower submits payments against their own loans.
	RoleBorrower Role = "borrower"
)

var validRoles = map[Role]bool{
	RoleLender:   true,
	RoleBorrower: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageLoans reports whether the role may create or delete loans
// and borrowers.
func (r Role) CanManageLoans() bool {
	return r == RoleLender
}

// CanSubmitPayments reports whether the role may record payments.
func (r Role) CanSubmitPayments() bool {
	return r == RoleBorrower
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
