package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// BorrowerService defines the borrower management operations.
type BorrowerService interface {
	CreateBorrower(ctx context.Context, input usecase.CreateBorrowerInput) (*domain.User, error)
	ListBorrowers(ctx context.Context, limit, offset int) ([]*domain.User, error)
	DeleteBorrower(ctx context.Context, borrowerID string) (*usecase.DeleteBorrowerResult, error)
}

// BorrowerHandler handles borrower account management. Only the
// lender manages borrowers.
type BorrowerHandler struct {
	service BorrowerService
}

// NewBorrowerHandler creates a new borrower handler.
func NewBorrowerHandler(service BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{service: service}
}

// Create handles POST /api/v1/borrowers.
func (h *BorrowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.CreateBorrower(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// List handles GET /api/v1/borrowers.
func (h *BorrowerHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListBorrowers(r.Context(),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserFromDomain(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/borrowers/{id}. Removes the borrower
// with every loan issued to them and all recorded payments.
func (h *BorrowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DeleteBorrower(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteBorrowerResponse{
		Username:     result.Username,
		DeletedLoans: result.DeletedLoans,
	})
}
