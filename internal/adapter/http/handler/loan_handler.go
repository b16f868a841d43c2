package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// LoanService defines the loan operations the handler needs.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, input usecase.ListLoansInput) ([]*usecase.LoanWithProgress, error)
	DeleteLoan(ctx context.Context, id string) error
	Recalculate(ctx context.Context, loanID string) (domain.RecalculationResult, error)
	LoanProgress(ctx context.Context, loanID string) (domain.ProgressSummary, error)
}

// LoanHandler handles loan HTTP requests.
type LoanHandler struct {
	service LoanService
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(service LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Create handles POST /api/v1/loans.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, role := callerIdentity(r)
	if !role.CanManageLoans() {
		writeError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), input)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get handles GET /api/v1/loans/{id}.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List handles GET /api/v1/loans. Lenders see loans they issued,
// borrowers see loans issued to them.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := callerIdentity(r)

	loans, err := h.service.ListLoans(r.Context(), usecase.ListLoansInput{
		UserID: userID,
		Role:   role,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]dto.LoanWithProgressResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, dto.LoanWithProgressFromUseCase(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/loans/{id}. Payments and stored
// receipts go with the loan.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, role := callerIdentity(r); !role.CanManageLoans() {
		writeError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
		return
	}

	if err := h.service.DeleteLoan(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Recalculate handles GET /api/v1/loans/{id}/recalculation.
func (h *LoanHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Recalculate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Progress handles GET /api/v1/loans/{id}/progress.
func (h *LoanHandler) Progress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.LoanProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProgressFromDomain(summary))
}

// callerIdentity resolves the requesting user. Without authentication
// the deployment is single-owner, so the caller acts as the lender.
func callerIdentity(r *http.Request) (string, domain.Role) {
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		return claims.UserID, claims.Role
	}
	return middleware.DefaultLenderID, domain.RoleLender
}
