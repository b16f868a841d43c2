package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new loan repository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, lender_id, borrower_id, amount, interest_rate, start_date, term_months, monthly_payment, total_payment, created_at`

// CreateTx inserts a new loan within a transaction.
func (r *LoanRepository) CreateTx(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	pgxTx := tx.(*Tx).PgxTx()
	_, err := pgxTx.Exec(ctx, query,
		loan.ID,
		loan.LenderID,
		loan.BorrowerID,
		loan.Amount,
		loan.InterestRate,
		loan.StartDate,
		loan.TermMonths,
		loan.MonthlyPayment,
		loan.TotalPayment,
		loan.CreatedAt,
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	return scanLoan(r.pool.QueryRow(ctx, query, id))
}

// GetByIDTx retrieves a loan by ID within a transaction.
func (r *LoanRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	pgxTx := tx.(*Tx).PgxTx()
	return scanLoan(pgxTx.QueryRow(ctx, query, id))
}

// ListByLender retrieves loans issued by a lender, newest first.
func (r *LoanRepository) ListByLender(ctx context.Context, lenderID string, limit, offset int) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE lender_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, lenderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListByBorrower retrieves loans taken by a borrower, newest first.
func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE borrower_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, borrowerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListByBorrowerTx retrieves all loans of a borrower within a transaction.
func (r *LoanRepository) ListByBorrowerTx(ctx context.Context, tx usecase.Transaction, borrowerID string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 ORDER BY created_at`

	pgxTx := tx.(*Tx).PgxTx()
	rows, err := pgxTx.Query(ctx, query, borrowerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// DeleteTx deletes a loan within a transaction.
func (r *LoanRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	query := `DELETE FROM loans WHERE id = $1`

	pgxTx := tx.(*Tx).PgxTx()
	tag, err := pgxTx.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID,
		&loan.LenderID,
		&loan.BorrowerID,
		&loan.Amount,
		&loan.InterestRate,
		&loan.StartDate,
		&loan.TermMonths,
		&loan.MonthlyPayment,
		&loan.TotalPayment,
		&loan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func collectLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}
