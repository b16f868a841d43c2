package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Benbok/friendly-loan/internal/domain"
)

// UserUseCase handles user management: borrower accounts created by
// the lender, and credential verification for login.
type UserUseCase struct {
	txManager   TransactionManager
	userRepo    UserRepository
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	idGen       IDGenerator
	clock       Clock
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
	clock Clock,
) *UserUseCase {
	return &UserUseCase{
		txManager:   txManager,
		userRepo:    userRepo,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

// CreateBorrowerInput represents input for creating a borrower.
type CreateBorrowerInput struct {
	Username string
	Password string
	FullName string
}

// CreateBorrower creates a borrower account with a hashed password.
func (uc *UserUseCase) CreateBorrower(ctx context.Context, input CreateBorrowerInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)

	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := domain.ValidateFullName(input.FullName); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       input.Username,
		FullName:       input.FullName,
		HashedPassword: string(hashed),
		Role:           domain.RoleBorrower,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ListBorrowers lists borrower accounts.
func (uc *UserUseCase) ListBorrowers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.ListByRole(ctx, domain.RoleBorrower, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.HashedPassword = ""
	}
	return users, nil
}

// DeleteBorrowerResult reports what a cascade deletion removed.
type DeleteBorrowerResult struct {
	Username     string
	DeletedLoans int
}

// DeleteBorrower removes a borrower together with all their loans and
// payments in a single transaction.
func (uc *UserUseCase) DeleteBorrower(ctx context.Context, borrowerID string) (*DeleteBorrowerResult, error) {
	user, err := uc.userRepo.GetByID(ctx, borrowerID)
	if err != nil {
		return nil, domain.ErrBorrowerNotFound
	}
	if user.Role != domain.RoleBorrower {
		return nil, domain.ErrBorrowerNotFound
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	loans, err := uc.loanRepo.ListByBorrowerTx(ctx, tx, borrowerID)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		if _, err := uc.paymentRepo.DeleteByLoanTx(ctx, tx, loan.ID); err != nil {
			return nil, err
		}
		if err := uc.loanRepo.DeleteTx(ctx, tx, loan.ID); err != nil {
			return nil, err
		}
	}

	if err := uc.userRepo.DeleteTx(ctx, tx, borrowerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &DeleteBorrowerResult{
		Username:     user.Username,
		DeletedLoans: len(loans),
	}, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Username string
	Password string
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
