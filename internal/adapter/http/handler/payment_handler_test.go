package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/auth"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

type paymentServiceStub struct {
	addFn    func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error)
	deleteFn func(ctx context.Context, paymentID string) (domain.RecalculationResult, error)
	listFn   func(ctx context.Context, loanID string) ([]domain.Payment, error)
}

func (s *paymentServiceStub) AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
	return s.addFn(ctx, input)
}

func (s *paymentServiceStub) DeletePayment(ctx context.Context, paymentID string) (domain.RecalculationResult, error) {
	return s.deleteFn(ctx, paymentID)
}

func (s *paymentServiceStub) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	return s.listFn(ctx, loanID)
}

func multipartPayment(t *testing.T, fields map[string]string, receiptName string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if receiptName != "" {
		part, err := writer.CreateFormFile("receipt", receiptName)
		if err != nil {
			t.Fatalf("failed to create receipt part: %v", err)
		}
		if _, err := part.Write([]byte("receipt content")); err != nil {
			t.Fatalf("failed to write receipt: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestPaymentHandler_Create_Success(t *testing.T) {
	paid, _ := domain.ParseDate("2024-02-15")

	var captured usecase.AddPaymentInput
	handler := NewPaymentHandler(&paymentServiceStub{
		addFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
			captured = input
			return &domain.Payment{
					ID:          "pay-1",
					LoanID:      input.LoanID,
					Amount:      input.Amount,
					Date:        paid,
					ReceiptName: input.ReceiptName,
					Seq:         1,
				}, domain.RecalculationResult{
					RemainingAmount:   11000,
					NewMonthlyPayment: 1000,
					MonthsRemaining:   11,
					Recalculated:      true,
				}, nil
		},
	}, 1<<20)

	body, contentType := multipartPayment(t, map[string]string{
		"amount": "1 000",
		"date":   "2024-02-15",
	}, "receipt.pdf")

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/loan-1/payments", body), "id", "loan-1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.LoanID != "loan-1" {
		t.Fatalf("expected loan ID from URL, got %s", captured.LoanID)
	}
	if captured.Amount != 1000 {
		t.Fatalf("expected sanitized amount 1000, got %d", captured.Amount)
	}
	if captured.ReceiptName != "receipt.pdf" {
		t.Fatalf("expected receipt name, got %s", captured.ReceiptName)
	}
	if captured.Receipt == nil {
		t.Fatal("expected receipt stream to be attached")
	}
	content, _ := io.ReadAll(captured.Receipt)
	if string(content) != "receipt content" {
		t.Fatalf("expected receipt content to be readable, got %q", content)
	}

	var resp dto.AddPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Payment.ID != "pay-1" || resp.Payment.Date != "2024-02-15" {
		t.Fatalf("unexpected payment in response: %+v", resp.Payment)
	}
	if !resp.Recalculation.Recalculated || resp.Recalculation.NewMonthlyPayment != 1000 {
		t.Fatalf("unexpected recalculation in response: %+v", resp.Recalculation)
	}
}

func TestPaymentHandler_Create_RoleChecks(t *testing.T) {
	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{
			name:       "lender token is rejected",
			claims:     &auth.Claims{UserID: "user-1", Role: domain.RoleLender},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "borrower token is accepted",
			claims:     &auth.Claims{UserID: "user-2", Role: domain.RoleBorrower},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "no claims means single-owner mode",
			claims:     nil,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceCalled := false
			handler := NewPaymentHandler(&paymentServiceStub{
				addFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
					serviceCalled = true
					paid, _ := domain.ParseDate("2024-02-15")
					return &domain.Payment{ID: "pay-1", LoanID: input.LoanID, Amount: input.Amount, Date: paid}, domain.RecalculationResult{Recalculated: true}, nil
				},
			}, 1<<20)

			body, contentType := multipartPayment(t, map[string]string{
				"amount": "1000",
				"date":   "2024-02-15",
			}, "receipt.pdf")

			req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/loan-1/payments", body), "id", "loan-1")
			req.Header.Set("Content-Type", contentType)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, tt.claims))
			}
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden && serviceCalled {
				t.Fatal("AddPayment should not be called for a forbidden role")
			}
		})
	}
}

func TestPaymentHandler_Create_MissingReceipt(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		addFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
			t.Fatal("AddPayment should not be called without a receipt")
			return nil, domain.RecalculationResult{}, nil
		},
	}, 1<<20)

	body, contentType := multipartPayment(t, map[string]string{"amount": "1000"}, "")

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/loan-1/payments", body), "id", "loan-1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_NotMultipart(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{}, 1<<20)

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/loan-1/payments", bytes.NewBufferString(`{"amount":"1000"}`)), "id", "loan-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_UnsupportedReceipt(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		addFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error) {
			return nil, domain.RecalculationResult{}, domain.ErrUnsupportedReceipt
		},
	}, 1<<20)

	body, contentType := multipartPayment(t, map[string]string{"amount": "1000"}, "malware.exe")

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/loan-1/payments", body), "id", "loan-1")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_List(t *testing.T) {
	first, _ := domain.ParseDate("2024-02-10")
	second, _ := domain.ParseDate("2024-02-10")
	handler := NewPaymentHandler(&paymentServiceStub{
		listFn: func(ctx context.Context, loanID string) ([]domain.Payment, error) {
			return []domain.Payment{
				{ID: "pay-1", LoanID: loanID, Amount: 100, Date: first, Seq: 1},
				{ID: "pay-2", LoanID: loanID, Amount: 200, Date: second, Seq: 2},
			}, nil
		},
	}, 1<<20)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/loans/loan-1/payments", nil), "id", "loan-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "pay-1" || resp[1].ID != "pay-2" {
		t.Fatalf("expected payments in submission order, got %+v", resp)
	}
}

func TestPaymentHandler_Delete(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		deleteFn: func(ctx context.Context, paymentID string) (domain.RecalculationResult, error) {
			if paymentID != "pay-1" {
				t.Fatalf("expected pay-1, got %s", paymentID)
			}
			return domain.RecalculationResult{
				RemainingAmount:   11000,
				NewMonthlyPayment: 1100,
				MonthsRemaining:   10,
				Recalculated:      true,
			}, nil
		},
	}, 1<<20)

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/payments/pay-1", nil), "id", "pay-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.RecalculationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NewMonthlyPayment != 1100 || resp.MonthsRemaining != 10 {
		t.Fatalf("unexpected recalculation: %+v", resp)
	}
}

func TestPaymentHandler_Delete_NotFound(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		deleteFn: func(ctx context.Context, paymentID string) (domain.RecalculationResult, error) {
			return domain.RecalculationResult{}, domain.ErrPaymentNotFound
		},
	}, 1<<20)

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/payments/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
