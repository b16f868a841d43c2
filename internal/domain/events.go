package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeLoanCreated    = "loan.created"
	EventTypeLoanDeleted    = "loan.deleted"
	EventTypePaymentCreated = "payment.recorded"
	EventTypePaymentDeleted = "payment.deleted"
)

// Aggregate types
const (
	AggregateTypeLoan    = "loan"
	AggregateTypePayment = "payment"
)

// OutboxEvent represents an event to be published.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MarshalPayload converts a typed event payload to the generic map
// stored in the outbox.
func MarshalPayload(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal payload"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal payload"}
	}

	return result
}

// LoanCreatedEvent payload
type LoanCreatedEvent struct {
	LoanID         string `json:"loan_id"`
	LenderID       string `json:"lender_id"`
	BorrowerID     string `json:"borrower_id"`
	Amount         int64  `json:"amount"`
	TermMonths     int    `json:"term_months"`
	MonthlyPayment int64  `json:"monthly_payment"`
	TotalPayment   int64  `json:"total_payment"`
}

// LoanDeletedEvent payload
type LoanDeletedEvent struct {
	LoanID          string `json:"loan_id"`
	PaymentsDeleted int    `json:"payments_deleted"`
}

// PaymentCreatedEvent payload
type PaymentCreatedEvent struct {
	PaymentID       string `json:"payment_id"`
	LoanID          string `json:"loan_id"`
	Amount          int64  `json:"amount"`
	PaymentDate     string `json:"payment_date"`
	RemainingAmount int64  `json:"remaining_amount"`
}

// PaymentDeletedEvent payload
type PaymentDeletedEvent struct {
	PaymentID       string `json:"payment_id"`
	LoanID          string `json:"loan_id"`
	RemainingAmount int64  `json:"remaining_amount"`
}
