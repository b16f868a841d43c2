package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
)

// ScheduleUseCase computes amortization schedules without persisting
// anything. Used at loan creation and for preview-without-saving.
type ScheduleUseCase struct {
	cache   Cache
	metrics *metrics.Metrics
}

// NewScheduleUseCase creates a new ScheduleUseCase. cache and metrics
// may be nil; previews are then computed every time.
func NewScheduleUseCase(cache Cache, m *metrics.Metrics) *ScheduleUseCase {
	return &ScheduleUseCase{cache: cache, metrics: m}
}

// ComputeScheduleInput represents input for a schedule computation.
type ComputeScheduleInput struct {
	Amount       int64
	InterestRate float64
	TermMonths   int
}

// ComputeSchedule computes the fixed installment plan for the input.
// Results are cached: the computation is pure, so identical inputs
// always produce identical schedules.
func (uc *ScheduleUseCase) ComputeSchedule(ctx context.Context, input ComputeScheduleInput) (domain.Schedule, error) {
	key := fmt.Sprintf("schedule:%d:%g:%d", input.Amount, input.InterestRate, input.TermMonths)

	if uc.metrics != nil {
		uc.metrics.SchedulePreviews.Inc()
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
			var s domain.Schedule
			if err := json.Unmarshal(cached, &s); err == nil {
				if uc.metrics != nil {
					uc.metrics.SchedulePreviewCache.WithLabelValues("hit").Inc()
				}
				return s, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.SchedulePreviewCache.WithLabelValues("miss").Inc()
		}
	}

	schedule, err := domain.ComputeSchedule(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		return domain.Schedule{}, err
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(schedule); err == nil {
			if err := uc.cache.Set(ctx, key, encoded, SchedulePreviewTTL); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("schedule cache write failed")
			}
		}
	}

	return schedule, nil
}
