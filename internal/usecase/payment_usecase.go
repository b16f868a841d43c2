package usecase

import (
	"context"
	"io"
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
)

// PaymentUseCase handles payment business logic. Every payment event
// (creation or deletion) triggers a recalculation of the loan inside
// the same transaction, so the result always reflects exactly one
// consistent payment snapshot.
type PaymentUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	receipts    ReceiptStore
	idGen       IDGenerator
	clock       Clock
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase. retrier and metrics
// may be nil; transient storage conflicts are then surfaced to the
// caller.
func NewPaymentUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	receipts ReceiptStore,
	idGen IDGenerator,
	clock Clock,
	retrier Retrier,
	m *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		receipts:    receipts,
		idGen:       idGen,
		clock:       clock,
		retrier:     retrier,
		metrics:     m,
	}
}

// AddPaymentInput represents input for recording a payment.
type AddPaymentInput struct {
	LoanID      string
	Amount      int64
	Date        time.Time
	ReceiptName string
	Receipt     io.Reader
}

// AddPayment stores the receipt, records the payment, and returns the
// payment together with the fresh recalculation of the loan.
func (uc *PaymentUseCase) AddPayment(ctx context.Context, input AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
	if input.Receipt == nil || input.ReceiptName == "" {
		return nil, domain.RecalculationResult{}, domain.ErrReceiptRequired
	}
	if input.Amount <= 0 {
		return nil, domain.RecalculationResult{}, domain.ErrInvalidAmount
	}
	if input.Date.IsZero() {
		return nil, domain.RecalculationResult{}, domain.ErrInvalidStartDate
	}

	receiptPath, err := uc.receipts.Save(ctx, input.ReceiptName, input.Receipt)
	if err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	var (
		payment *domain.Payment
		result  domain.RecalculationResult
	)

	op := func() error {
		var opErr error
		payment, result, opErr = uc.addPaymentTx(ctx, input, receiptPath)
		return opErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		// The payment was not recorded; don't keep its receipt around.
		_ = uc.receipts.Delete(ctx, receiptPath)
		return nil, domain.RecalculationResult{}, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.Inc()
		uc.metrics.PaymentAmount.Observe(float64(payment.Amount))
	}

	return payment, result, nil
}

func (uc *PaymentUseCase) addPaymentTx(ctx context.Context, input AddPaymentInput, receiptPath string) (*domain.Payment, domain.RecalculationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, domain.RecalculationResult{}, err
	}
	defer tx.Rollback(ctx)

	loan, err := uc.loanRepo.GetByIDTx(ctx, tx, input.LoanID)
	if err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	now := uc.clock.Now().UTC()
	payment := &domain.Payment{
		ID:          uc.idGen.Generate(),
		LoanID:      loan.ID,
		Amount:      input.Amount,
		Date:        input.Date,
		ReceiptPath: receiptPath,
		ReceiptName: input.ReceiptName,
		CreatedAt:   now,
	}

	if err := uc.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	payments, err := uc.paymentRepo.ListByLoanTx(ctx, tx, loan.ID)
	if err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	result := domain.Recalculate(loan, payments, now)

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentCreated,
		Payload: domain.MarshalPayload(domain.PaymentCreatedEvent{
			PaymentID:       payment.ID,
			LoanID:          loan.ID,
			Amount:          payment.Amount,
			PaymentDate:     domain.FormatDate(payment.Date),
			RemainingAmount: result.RemainingAmount,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.RecalculationResult{}, err
	}

	return payment, result, nil
}

// DeletePayment removes a payment and returns the recalculation of the
// loan without it.
func (uc *PaymentUseCase) DeletePayment(ctx context.Context, paymentID string) (domain.RecalculationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return domain.RecalculationResult{}, err
	}
	defer tx.Rollback(ctx)

	payment, err := uc.paymentRepo.GetByIDTx(ctx, tx, paymentID)
	if err != nil {
		return domain.RecalculationResult{}, err
	}

	loan, err := uc.loanRepo.GetByIDTx(ctx, tx, payment.LoanID)
	if err != nil {
		return domain.RecalculationResult{}, err
	}

	if err := uc.paymentRepo.DeleteTx(ctx, tx, paymentID); err != nil {
		return domain.RecalculationResult{}, err
	}

	payments, err := uc.paymentRepo.ListByLoanTx(ctx, tx, loan.ID)
	if err != nil {
		return domain.RecalculationResult{}, err
	}

	now := uc.clock.Now().UTC()
	result := domain.Recalculate(loan, payments, now)

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   paymentID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentDeleted,
		Payload: domain.MarshalPayload(domain.PaymentDeletedEvent{
			PaymentID:       paymentID,
			LoanID:          loan.ID,
			RemainingAmount: result.RemainingAmount,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return domain.RecalculationResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RecalculationResult{}, err
	}

	// The receipt belongs to the deleted payment; best effort cleanup.
	if payment.ReceiptPath != "" {
		_ = uc.receipts.Delete(ctx, payment.ReceiptPath)
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsDeleted.Inc()
	}

	return result, nil
}

// ListPayments lists a loan's payments ascending by (date, sequence).
func (uc *PaymentUseCase) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return uc.paymentRepo.ListByLoan(ctx, loanID)
}
