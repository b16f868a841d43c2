package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/auth"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// AuthService defines the credential operations the handler needs.
type AuthService interface {
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthHandler handles login and identity lookups.
type AuthHandler struct {
	service    AuthService
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service AuthService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{service: service, jwtManager: jwtManager}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), usecase.AuthenticateInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
