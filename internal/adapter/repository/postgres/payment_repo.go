package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository. The seq
// column is assigned by the database and breaks date ties, so listing
// order is stable across reads.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, loan_id, amount, payment_date, receipt_path, receipt_name, seq, created_at`

// CreateTx inserts a new payment within a transaction. The database
// assigns the sequence number; it is written back to the payment.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, amount, payment_date, receipt_path, receipt_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`

	pgxTx := tx.(*Tx).PgxTx()
	return pgxTx.QueryRow(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.Date,
		payment.ReceiptPath,
		payment.ReceiptName,
		payment.CreatedAt,
	).Scan(&payment.Seq)
}

// GetByIDTx retrieves a payment by ID within a transaction.
func (r *PaymentRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	pgxTx := tx.(*Tx).PgxTx()
	return scanPayment(pgxTx.QueryRow(ctx, query, id))
}

// ListByLoan retrieves a loan's payments ascending by (date, seq).
// One statement, one snapshot.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, listPaymentsQuery, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// ListByLoanTx retrieves a loan's payments within a transaction.
func (r *PaymentRepository) ListByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.Payment, error) {
	pgxTx := tx.(*Tx).PgxTx()
	rows, err := pgxTx.Query(ctx, listPaymentsQuery, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

const listPaymentsQuery = `
	SELECT ` + paymentColumns + `
	FROM payments
	WHERE loan_id = $1
	ORDER BY payment_date, seq
`

// DeleteTx deletes a payment within a transaction.
func (r *PaymentRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	query := `DELETE FROM payments WHERE id = $1`

	pgxTx := tx.(*Tx).PgxTx()
	tag, err := pgxTx.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// DeleteByLoanTx deletes all payments of a loan within a transaction
// and reports how many were removed.
func (r *PaymentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	query := `DELETE FROM payments WHERE loan_id = $1`

	pgxTx := tx.(*Tx).PgxTx()
	tag, err := pgxTx.Exec(ctx, query, loanID)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.Amount,
		&payment.Date,
		&payment.ReceiptPath,
		&payment.ReceiptName,
		&payment.Seq,
		&payment.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}

	return payments, rows.Err()
}
