package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// PaymentService defines the payment operations the handler needs.
type PaymentService interface {
	AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Payment, domain.RecalculationResult, error)
	DeletePayment(ctx context.Context, paymentID string) (domain.RecalculationResult, error)
	ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error)
}

// PaymentHandler handles payment HTTP requests. Payments arrive as
// multipart forms because a receipt document always travels with them.
type PaymentHandler struct {
	service  PaymentService
	maxBytes int64
}

// NewPaymentHandler creates a new payment handler. maxBytes bounds the
// accepted multipart body size.
func NewPaymentHandler(service PaymentService, maxBytes int64) *PaymentHandler {
	return &PaymentHandler{service: service, maxBytes: maxBytes}
}

// Create handles POST /api/v1/loans/{id}/payments. Expects multipart
// form fields "amount" and "date" plus a "receipt" file. With
// authentication on, only the borrower side records payments; a
// single-owner deployment carries no claims and is not restricted.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok && !claims.Role.CanSubmitPayments() {
		writeError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := dto.AddPaymentForm{
		Amount: r.FormValue("amount"),
		Date:   r.FormValue("date"),
	}

	input, err := form.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		mapDomainError(w, domain.ErrReceiptRequired)
		return
	}
	defer file.Close()

	input.Receipt = file
	input.ReceiptName = header.Filename

	payment, recalc, err := h.service.AddPayment(r.Context(), input)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AddPaymentResponse{
		Payment:       dto.PaymentFromDomain(payment),
		Recalculation: recalc,
	})
}

// List handles GET /api/v1/loans/{id}/payments. Payments come back
// oldest first, same-day entries in submission order.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}

// Delete handles DELETE /api/v1/payments/{id}. The loan is
// recalculated without the deleted payment and the result returned.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recalc, err := h.service.DeletePayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recalc)
}
