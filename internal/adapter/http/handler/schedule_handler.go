package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Benbok/friendly-loan/internal/adapter/http/dto"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// ScheduleService defines the schedule preview operation.
type ScheduleService interface {
	ComputeSchedule(ctx context.Context, input usecase.ComputeScheduleInput) (domain.Schedule, error)
}

// ScheduleHandler handles standalone schedule previews. Nothing is
// persisted; the endpoint works without any loan existing.
type ScheduleHandler struct {
	service ScheduleService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(service ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Calculate handles POST /api/v1/calculate.
func (h *ScheduleHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := h.service.ComputeSchedule(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleFromDomain(schedule))
}
