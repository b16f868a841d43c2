package usecase

import (
	"context"
	"io"
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
)

// LoanRepository defines data access for loans.
type LoanRepository interface {
	CreateTx(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	ListByLender(ctx context.Context, lenderID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrowerTx(ctx context.Context, tx Transaction, borrowerID string) ([]*domain.Loan, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// PaymentRepository defines data access for payments. List methods
// return payments ordered ascending by (payment date, sequence); a
// single statement per call so every read is one consistent snapshot.
type PaymentRepository interface {
	CreateTx(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
	ListByLoanTx(ctx context.Context, tx Transaction, loanID string) ([]domain.Payment, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
	DeleteByLoanTx(ctx context.Context, tx Transaction, loanID string) (int, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures. Domain
// errors are never retried; lookups like ErrLoanNotFound are terminal.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the evaluation date for calendar-month arithmetic.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// ReceiptStore persists uploaded receipt documents.
type ReceiptStore interface {
	// Save stores the document under a collision-free name derived from
	// filename and returns the stored path. Rejects unsupported file
	// types with domain.ErrUnsupportedReceipt.
	Save(ctx context.Context, filename string, content io.Reader) (path string, err error)
	Delete(ctx context.Context, path string) error
}
