package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/Benbok/friendly-loan/internal/adapter/http"
	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/adapter/http/handler"
	"github.com/Benbok/friendly-loan/internal/adapter/repository/postgres"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/clock"
	"github.com/Benbok/friendly-loan/internal/infrastructure/storage"
	"github.com/Benbok/friendly-loan/internal/usecase"
	"github.com/Benbok/friendly-loan/tests/testutil"
)

// newTestServer assembles the real stack against the test database.
// Cache and idempotency are left out; they have their own tests.
func newTestServer(t *testing.T, db *testutil.TestDB) *httptest.Server {
	t.Helper()

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	sysClock := clock.NewSystem()

	receipts, err := storage.NewReceiptStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create receipt store: %v", err)
	}

	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, userRepo, outboxRepo, idGen, sysClock, nil)
	paymentUC := usecase.NewPaymentUseCase(txManager, loanRepo, paymentRepo, outboxRepo, receipts, idGen, sysClock, postgres.NewRetrier(), nil)
	scheduleUC := usecase.NewScheduleUseCase(nil, nil)
	userUC := usecase.NewUserUseCase(txManager, userRepo, loanRepo, paymentRepo, idGen, sysClock)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LoanHandler:     handler.NewLoanHandler(loanUC),
		PaymentHandler:  handler.NewPaymentHandler(paymentUC, 1<<20),
		ScheduleHandler: handler.NewScheduleHandler(scheduleUC),
		BorrowerHandler: handler.NewBorrowerHandler(userUC),
		HealthHandler:   handler.NewHealthHandler(pool, nil),
		Logger:          zerolog.Nop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestLoanLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	server := newTestServer(t, db)
	borrower := db.CreateTestUser(ctx, "ivan", domain.RoleBorrower)

	// Create a loan through the API.
	resp := postJSON(t, server.URL+"/api/v1/loans/", dto.CreateLoanRequest{
		BorrowerID:   borrower.ID,
		Amount:       "120 000",
		InterestRate: 12,
		StartDate:    "2024-01-15",
		TermMonths:   12,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var loan dto.LoanResponse
	decodeBody(t, resp, &loan)
	if loan.MonthlyPayment != 10662 || loan.TotalPayment != 127944 {
		t.Fatalf("unexpected installment plan: %+v", loan)
	}

	// The loan shows up in the listing with zero progress.
	listResp, err := http.Get(server.URL + "/api/v1/loans/")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var listed []dto.LoanWithProgressResponse
	decodeBody(t, listResp, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected one loan, got %d", len(listed))
	}
	if listed[0].Progress.TotalPaid != 0 || listed[0].Progress.RemainingAmount != 127944 {
		t.Fatalf("unexpected fresh progress: %+v", listed[0].Progress)
	}

	// Creating the loan queued an outbox event.
	var eventCount int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM outbox_events WHERE event_type = $1`, domain.EventTypeLoanCreated).Scan(&eventCount); err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected one loan.created event, got %d", eventCount)
	}

	// Delete the loan; the listing goes empty.
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/loans/"+loan.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", delResp.StatusCode)
	}

	listResp, err = http.Get(server.URL + "/api/v1/loans/")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	decodeBody(t, listResp, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected no loans after delete, got %d", len(listed))
	}
}

func TestBorrowerManagement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	server := newTestServer(t, db)

	resp := postJSON(t, server.URL+"/api/v1/borrowers/", dto.CreateBorrowerRequest{
		Username: "maria",
		Password: "secret",
		FullName: "Maria Ivanova",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created dto.UserResponse
	decodeBody(t, resp, &created)
	if created.Role != "borrower" || created.Username != "maria" {
		t.Fatalf("unexpected borrower: %+v", created)
	}

	// Duplicate usernames are rejected.
	resp = postJSON(t, server.URL+"/api/v1/borrowers/", dto.CreateBorrowerRequest{
		Username: "maria",
		Password: "secret",
		FullName: "Maria Ivanova",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
}

func TestSchedulePreviewEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	server := newTestServer(t, db)

	resp := postJSON(t, server.URL+"/api/v1/calculate", dto.PreviewScheduleRequest{
		Amount:       "12,000",
		InterestRate: 0,
		TermMonths:   12,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var schedule dto.ScheduleResponse
	decodeBody(t, resp, &schedule)
	if schedule.MonthlyPayment != 1000 || schedule.TotalInterest != 0 {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}

	// Nothing was persisted.
	var loanCount int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM loans`).Scan(&loanCount); err != nil {
		t.Fatalf("failed to count loans: %v", err)
	}
	if loanCount != 0 {
		t.Fatalf("expected preview to persist nothing, found %d loans", loanCount)
	}
}
