package mocks

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDTxFunc        func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	ListByLenderFunc     func(ctx context.Context, lenderID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrowerFunc   func(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrowerTxFunc func(ctx context.Context, tx usecase.Transaction, borrowerID string) ([]*domain.Loan, error)
	DeleteTxFunc         func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{loans: make(map[string]*domain.Loan)}
}

func (m *MockLoanRepository) CreateTx(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLoanRepository) ListByLender(ctx context.Context, lenderID string, limit, offset int) ([]*domain.Loan, error) {
	if m.ListByLenderFunc != nil {
		return m.ListByLenderFunc(ctx, lenderID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if loan.LenderID == lenderID {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error) {
	if m.ListByBorrowerFunc != nil {
		return m.ListByBorrowerFunc(ctx, borrowerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if loan.BorrowerID == borrowerID {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListByBorrowerTx(ctx context.Context, tx usecase.Transaction, borrowerID string) ([]*domain.Loan, error) {
	if m.ListByBorrowerTxFunc != nil {
		return m.ListByBorrowerTxFunc(ctx, tx, borrowerID)
	}
	return m.ListByBorrower(ctx, borrowerID, 0, 0)
}

func (m *MockLoanRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	nextSeq  int64

	CreateTxFunc       func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	GetByIDTxFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error)
	ListByLoanFunc     func(ctx context.Context, loanID string) ([]domain.Payment, error)
	ListByLoanTxFunc   func(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.Payment, error)
	DeleteTxFunc       func(ctx context.Context, tx usecase.Transaction, id string) error
	DeleteByLoanTxFunc func(ctx context.Context, tx usecase.Transaction, loanID string) (int, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

func (m *MockPaymentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	payment.Seq = m.nextSeq
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []domain.Payment
	for _, p := range m.payments {
		if p.LoanID == loanID {
			payments = append(payments, *p)
		}
	}
	domain.SortPayments(payments)
	return payments, nil
}

func (m *MockPaymentRepository) ListByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.Payment, error) {
	if m.ListByLoanTxFunc != nil {
		return m.ListByLoanTxFunc(ctx, tx, loanID)
	}
	return m.ListByLoan(ctx, loanID)
}

func (m *MockPaymentRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *MockPaymentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	if m.DeleteByLoanTxFunc != nil {
		return m.DeleteByLoanTxFunc(ctx, tx, loanID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for id, p := range m.payments {
		if p.LoanID == loanID {
			delete(m.payments, id)
			deleted++
		}
	}
	return deleted, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	ListByRoleFunc    func(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error)
	DeleteTxFunc      func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		if u.Role == role {
			copied := *u
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *MockUserRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitCalled   bool
	RollbackCalled bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.CommitCalled = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.RollbackCalled = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}

// MockClock returns a fixed time.
type MockClock struct {
	NowFunc func() time.Time
	Time    time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{Time: t}
}

func (m *MockClock) Now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return m.Time
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// MockReceiptStore is an in-memory ReceiptStore.
type MockReceiptStore struct {
	mu    sync.Mutex
	Saved []string

	SaveFunc   func(ctx context.Context, filename string, content io.Reader) (string, error)
	DeleteFunc func(ctx context.Context, path string) error
}

func NewMockReceiptStore() *MockReceiptStore {
	return &MockReceiptStore{}
}

func (m *MockReceiptStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, filename, content)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "receipts/" + filename
	m.Saved = append(m.Saved, path)
	return path, nil
}

func (m *MockReceiptStore) Delete(ctx context.Context, path string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Saved {
		if p == path {
			m.Saved = append(m.Saved[:i], m.Saved[i+1:]...)
			break
		}
	}
	return nil
}
