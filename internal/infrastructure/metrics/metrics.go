package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansCreated prometheus.Counter
	LoansDeleted prometheus.Counter
	LoanAmount   prometheus.Histogram
	LoanErrors   *prometheus.CounterVec

	// Payment metrics
	PaymentsRecorded prometheus.Counter
	PaymentsDeleted  prometheus.Counter
	PaymentAmount    prometheus.Histogram

	// Recalculation metrics
	Recalculations       prometheus.Counter
	RecalculationErrors  *prometheus.CounterVec
	SchedulePreviews     prometheus.Counter
	SchedulePreviewCache *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Loan metrics
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_loans_deleted_total",
			Help: "Total number of loans deleted",
		}),
		LoanAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "friendlyloan_loan_amount",
			Help:    "Principal amounts of created loans",
			Buckets: []float64{1000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		}),
		LoanErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_loan_errors_total",
				Help: "Total number of loan operation errors by type",
			},
			[]string{"error_type"},
		),

		// Payment metrics
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_payments_recorded_total",
			Help: "Total number of payments recorded",
		}),
		PaymentsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_payments_deleted_total",
			Help: "Total number of payments deleted",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "friendlyloan_payment_amount",
			Help:    "Amounts of recorded payments",
			Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000},
		}),

		// Recalculation metrics
		Recalculations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_recalculations_total",
			Help: "Total number of loan recalculations",
		}),
		RecalculationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_recalculation_errors_total",
				Help: "Total number of recalculation errors by type",
			},
			[]string{"error_type"},
		),
		SchedulePreviews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "friendlyloan_schedule_previews_total",
			Help: "Total number of schedule preview computations",
		}),
		SchedulePreviewCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_schedule_preview_cache_total",
				Help: "Schedule preview cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "friendlyloan_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"result"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_auth_failures_total",
				Help: "Total authentication failures by reason",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendlyloan_ratelimit_hits_total",
				Help: "Total rate limit rejections",
			},
			[]string{"path"},
		),
	}
}
