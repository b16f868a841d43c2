package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
	"github.com/Benbok/friendly-loan/internal/usecase/mocks"
)

type userFixture struct {
	txManager   *mocks.MockTransactionManager
	userRepo    *mocks.MockUserRepository
	loanRepo    *mocks.MockLoanRepository
	paymentRepo *mocks.MockPaymentRepository
	uc          *usecase.UserUseCase
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		txManager:   mocks.NewMockTransactionManager(),
		userRepo:    mocks.NewMockUserRepository(),
		loanRepo:    mocks.NewMockLoanRepository(),
		paymentRepo: mocks.NewMockPaymentRepository(),
	}
	f.uc = usecase.NewUserUseCase(
		f.txManager, f.userRepo, f.loanRepo, f.paymentRepo,
		mocks.NewMockIDGenerator(), mocks.NewMockClock(date(t, "2024-01-15")),
	)
	return f
}

func TestUserUseCase_CreateBorrower(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateBorrowerInput
		expectError bool
	}{
		{
			name: "successful creation",
			input: usecase.CreateBorrowerInput{
				Username: "ivan",
				Password: "secret",
				FullName: "Ivan Petrov",
			},
		},
		{
			name: "surrounding whitespace trimmed",
			input: usecase.CreateBorrowerInput{
				Username: "  maria  ",
				Password: "secret",
				FullName: "  Maria Ivanova  ",
			},
		},
		{
			name: "empty username rejected",
			input: usecase.CreateBorrowerInput{
				Username: "   ",
				Password: "secret",
				FullName: "Ivan Petrov",
			},
			expectError: true,
		},
		{
			name: "short password rejected",
			input: usecase.CreateBorrowerInput{
				Username: "ivan",
				Password: "abc",
				FullName: "Ivan Petrov",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)

			user, err := f.uc.CreateBorrower(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Role != domain.RoleBorrower {
				t.Errorf("role = %q, want %q", user.Role, domain.RoleBorrower)
			}
			if user.HashedPassword != "" {
				t.Error("hashed password must not leave the use case")
			}
			if user.Username != "ivan" && user.Username != "maria" {
				t.Errorf("username not trimmed: %q", user.Username)
			}
		})
	}
}

func TestUserUseCase_CreateBorrower_DuplicateUsername(t *testing.T) {
	f := newUserFixture(t)

	input := usecase.CreateBorrowerInput{Username: "ivan", Password: "secret", FullName: "Ivan Petrov"}
	if _, err := f.uc.CreateBorrower(context.Background(), input); err != nil {
		t.Fatalf("first creation: %v", err)
	}
	if _, err := f.uc.CreateBorrower(context.Background(), input); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	f := newUserFixture(t)

	created, err := f.uc.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{
		Username: "ivan",
		Password: "secret",
		FullName: "Ivan Petrov",
	})
	if err != nil {
		t.Fatalf("create borrower: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid credentials", "ivan", "secret", nil},
		{"wrong password", "ivan", "wrong", domain.ErrUnauthorized},
		{"unknown user", "nobody", "secret", domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.uc.Authenticate(context.Background(), usecase.AuthenticateInput{
				Username: tt.username,
				Password: tt.password,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != created.ID {
				t.Errorf("user ID = %q, want %q", user.ID, created.ID)
			}
			if user.HashedPassword != "" {
				t.Error("hashed password must not leave the use case")
			}
		})
	}
}

func TestUserUseCase_DeleteBorrower(t *testing.T) {
	f := newUserFixture(t)

	borrower, err := f.uc.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{
		Username: "ivan",
		Password: "secret",
		FullName: "Ivan Petrov",
	})
	if err != nil {
		t.Fatalf("create borrower: %v", err)
	}

	for _, loanID := range []string{"loan-1", "loan-2"} {
		if err := f.loanRepo.CreateTx(context.Background(), nil, &domain.Loan{
			ID:         loanID,
			LenderID:   "lender-1",
			BorrowerID: borrower.ID,
			Amount:     12000,
			TermMonths: 12,
			StartDate:  date(t, "2024-01-15"),
		}); err != nil {
			t.Fatalf("seed loan: %v", err)
		}
		if err := f.paymentRepo.CreateTx(context.Background(), nil, &domain.Payment{
			ID:     "pay-" + loanID,
			LoanID: loanID,
			Amount: 1000,
			Date:   date(t, "2024-02-01"),
		}); err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	result, err := f.uc.DeleteBorrower(context.Background(), borrower.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Username != "ivan" {
		t.Errorf("username = %q, want %q", result.Username, "ivan")
	}
	if result.DeletedLoans != 2 {
		t.Errorf("deleted loans = %d, want 2", result.DeletedLoans)
	}

	if _, err := f.uc.GetUser(context.Background(), borrower.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	loans, err := f.loanRepo.ListByBorrower(context.Background(), borrower.ID, 0, 0)
	if err != nil {
		t.Fatalf("list loans: %v", err)
	}
	if len(loans) != 0 {
		t.Errorf("expected loans cascade deleted, got %d", len(loans))
	}
	for _, loanID := range []string{"loan-1", "loan-2"} {
		payments, err := f.paymentRepo.ListByLoan(context.Background(), loanID)
		if err != nil {
			t.Fatalf("list payments: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("expected payments of %s cascade deleted, got %d", loanID, len(payments))
		}
	}
}

func TestUserUseCase_DeleteBorrower_NotFound(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.uc.DeleteBorrower(context.Background(), "missing"); !errors.Is(err, domain.ErrBorrowerNotFound) {
		t.Errorf("expected ErrBorrowerNotFound, got %v", err)
	}
}

func TestUserUseCase_ListBorrowers(t *testing.T) {
	f := newUserFixture(t)

	for _, username := range []string{"ivan", "maria"} {
		if _, err := f.uc.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{
			Username: username,
			Password: "secret",
			FullName: "Borrower " + username,
		}); err != nil {
			t.Fatalf("create borrower: %v", err)
		}
	}

	borrowers, err := f.uc.ListBorrowers(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(borrowers) != 2 {
		t.Fatalf("expected 2 borrowers, got %d", len(borrowers))
	}
	for _, b := range borrowers {
		if b.HashedPassword != "" {
			t.Error("hashed password must not leave the use case")
		}
	}
}
