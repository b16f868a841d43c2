package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Benbok/friendly-loan/internal/adapter/http/handler"
	"github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	"github.com/Benbok/friendly-loan/internal/domain"
	"github.com/Benbok/friendly-loan/internal/infrastructure/auth"
	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler     *handler.LoanHandler
	PaymentHandler  *handler.PaymentHandler
	ScheduleHandler *handler.ScheduleHandler
	BorrowerHandler *handler.BorrowerHandler
	AuthHandler     *handler.AuthHandler
	HealthHandler   *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// AuthEnabled turns on token verification. When false the service
	// runs single-owner: every request acts as the lender.
	AuthEnabled bool
	JWTManager  *auth.JWTManager

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotency.Wrap)
		}

		// Schedule preview works for everyone, logged in or not.
		r.Post("/calculate", cfg.ScheduleHandler.Calculate)

		if cfg.AuthEnabled {
			r.Post("/auth/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))

				r.Get("/auth/me", cfg.AuthHandler.Me)
				mountLoanRoutes(r, cfg)
			})
			return
		}

		mountLoanRoutes(r, cfg)
	})

	return r
}

func mountLoanRoutes(r chi.Router, cfg RouterConfig) {
	// Loans
	r.Route("/loans", func(r chi.Router) {
		r.Post("/", cfg.LoanHandler.Create)
		r.Get("/", cfg.LoanHandler.List)
		r.Get("/{id}", cfg.LoanHandler.Get)
		r.Delete("/{id}", cfg.LoanHandler.Delete)
		r.Get("/{id}/recalculation", cfg.LoanHandler.Recalculate)
		r.Get("/{id}/progress", cfg.LoanHandler.Progress)
		r.Post("/{id}/payments", cfg.PaymentHandler.Create)
		r.Get("/{id}/payments", cfg.PaymentHandler.List)
	})

	// Payments
	r.Delete("/payments/{id}", cfg.PaymentHandler.Delete)

	// Borrowers are managed by the lender only.
	r.Route("/borrowers", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(middleware.RequireRole(domain.RoleLender))
		}
		r.Post("/", cfg.BorrowerHandler.Create)
		r.Get("/", cfg.BorrowerHandler.List)
		r.Delete("/{id}", cfg.BorrowerHandler.Delete)
	})
}
