package usecase

import (
	"context"
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
)

// LoanUseCase handles loan business logic: creation with schedule
// computation, listing with progress, deletion, and the derived
// recalculation and progress views.
type LoanUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	userRepo    UserRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase. metrics may be nil.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
		metrics:     m,
	}
}

// CreateLoanInput represents input for creating a loan. LenderID comes
// from the authenticated caller, never from ambient state.
type CreateLoanInput struct {
	LenderID     string
	BorrowerID   string
	Amount       int64
	InterestRate float64
	StartDate    time.Time
	TermMonths   int
}

// CreateLoan validates the terms, computes the installment plan once,
// and persists the loan with it. The terms are immutable afterwards.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	if err := domain.ValidateLoanTerms(input.Amount, input.InterestRate, input.TermMonths, input.StartDate); err != nil {
		if uc.metrics != nil {
			uc.metrics.LoanErrors.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	borrower, err := uc.userRepo.GetByID(ctx, input.BorrowerID)
	if err != nil {
		return nil, domain.ErrBorrowerNotFound
	}
	if borrower.Role != domain.RoleBorrower {
		return nil, domain.ErrBorrowerNotFound
	}

	schedule, err := domain.ComputeSchedule(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	loan := &domain.Loan{
		ID:             uc.idGen.Generate(),
		LenderID:       input.LenderID,
		BorrowerID:     input.BorrowerID,
		Amount:         input.Amount,
		InterestRate:   input.InterestRate,
		StartDate:      input.StartDate,
		TermMonths:     input.TermMonths,
		MonthlyPayment: schedule.MonthlyPayment,
		TotalPayment:   schedule.TotalPayment,
		CreatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.loanRepo.CreateTx(ctx, tx, loan); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanCreated,
		Payload: domain.MarshalPayload(domain.LoanCreatedEvent{
			LoanID:         loan.ID,
			LenderID:       loan.LenderID,
			BorrowerID:     loan.BorrowerID,
			Amount:         loan.Amount,
			TermMonths:     loan.TermMonths,
			MonthlyPayment: loan.MonthlyPayment,
			TotalPayment:   loan.TotalPayment,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
		uc.metrics.LoanAmount.Observe(float64(loan.Amount))
	}

	return loan, nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// LoanWithProgress pairs a loan with its derived repayment summary and
// the display name of the other party.
type LoanWithProgress struct {
	Loan             *domain.Loan
	Progress         domain.ProgressSummary
	CounterpartyName string
}

// ListLoansInput represents input for listing loans. The caller's
// identity and role decide which side of the ledger is listed.
type ListLoansInput struct {
	UserID string
	Role   domain.Role
	Limit  int
	Offset int
}

// ListLoans lists the caller's loans, each with its progress summary.
func (uc *LoanUseCase) ListLoans(ctx context.Context, input ListLoansInput) ([]*LoanWithProgress, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	var (
		loans []*domain.Loan
		err   error
	)
	if input.Role == domain.RoleLender {
		loans, err = uc.loanRepo.ListByLender(ctx, input.UserID, limit, offset)
	} else {
		loans, err = uc.loanRepo.ListByBorrower(ctx, input.UserID, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*LoanWithProgress, 0, len(loans))
	for _, loan := range loans {
		payments, err := uc.paymentRepo.ListByLoan(ctx, loan.ID)
		if err != nil {
			return nil, err
		}

		counterpartyID := loan.BorrowerID
		if input.Role == domain.RoleBorrower {
			counterpartyID = loan.LenderID
		}

		name := ""
		if counterparty, err := uc.userRepo.GetByID(ctx, counterpartyID); err == nil {
			name = counterparty.FullName
			if name == "" {
				name = counterparty.Username
			}
		}

		result = append(result, &LoanWithProgress{
			Loan:             loan,
			Progress:         domain.Progress(loan, payments),
			CounterpartyName: name,
		})
	}

	return result, nil
}

// DeleteLoan deletes a loan and all its payments atomically.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.loanRepo.GetByIDTx(ctx, tx, id); err != nil {
		return err
	}

	deleted, err := uc.paymentRepo.DeleteByLoanTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := uc.loanRepo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanDeleted,
		Payload: domain.MarshalPayload(domain.LoanDeletedEvent{
			LoanID:          id,
			PaymentsDeleted: deleted,
		}),
		CreatedAt: uc.clock.Now().UTC(),
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LoansDeleted.Inc()
	}
	return nil
}

// Recalculate derives the forward view of the loan from its current
// payment history. The payment list is read in a single statement, so
// the computation always runs against one consistent snapshot.
// ErrLoanNotFound is terminal; callers must not retry it.
func (uc *LoanUseCase) Recalculate(ctx context.Context, loanID string) (domain.RecalculationResult, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return domain.RecalculationResult{}, err
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return domain.RecalculationResult{}, err
	}

	if uc.metrics != nil {
		uc.metrics.Recalculations.Inc()
	}
	return domain.Recalculate(loan, payments, uc.clock.Now()), nil
}

// LoanProgress derives the display-level repayment summary for a loan.
func (uc *LoanUseCase) LoanProgress(ctx context.Context, loanID string) (domain.ProgressSummary, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}

	return domain.Progress(loan, payments), nil
}
