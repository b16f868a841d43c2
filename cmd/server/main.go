package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/Benbok/friendly-loan/internal/adapter/http"
	"github.com/Benbok/friendly-loan/internal/adapter/http/handler"
	apimiddleware "github.com/Benbok/friendly-loan/internal/adapter/http/middleware"
	postgresRepo "github.com/Benbok/friendly-loan/internal/adapter/repository/postgres"
	redisRepo "github.com/Benbok/friendly-loan/internal/adapter/repository/redis"
	"github.com/Benbok/friendly-loan/internal/infrastructure/auth"
	"github.com/Benbok/friendly-loan/internal/infrastructure/clock"
	"github.com/Benbok/friendly-loan/internal/infrastructure/config"
	"github.com/Benbok/friendly-loan/internal/infrastructure/eventpublisher"
	"github.com/Benbok/friendly-loan/internal/infrastructure/logger"
	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
	"github.com/Benbok/friendly-loan/internal/infrastructure/postgres"
	"github.com/Benbok/friendly-loan/internal/infrastructure/redis"
	"github.com/Benbok/friendly-loan/internal/infrastructure/storage"
	"github.com/Benbok/friendly-loan/internal/usecase"
)

const migrationsPath = "migrations"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Receipt storage
	receiptStore, err := storage.NewReceiptStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to prepare receipt storage")
	}

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	sysClock := clock.NewSystem()

	// Use cases
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, userRepo, outboxRepo, idGen, sysClock, m)
	paymentUC := usecase.NewPaymentUseCase(txManager, loanRepo, paymentRepo, outboxRepo, receiptStore, idGen, sysClock, retrier, m)
	scheduleUC := usecase.NewScheduleUseCase(cache, m)
	userUC := usecase.NewUserUseCase(txManager, userRepo, loanRepo, paymentRepo, idGen, sysClock)

	// Authentication
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		log.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET to be set")
	}

	// HTTP layer
	rateLimiter := apimiddleware.NewRateLimiter(float64(cfg.RateLimitPerSec), cfg.RateLimitBurst, func(path string) {
		m.RateLimitHits.WithLabelValues(path).Inc()
	})
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go rateLimiter.Cleanup(10*time.Minute, stopCleanup)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:      handler.NewLoanHandler(loanUC),
		PaymentHandler:   handler.NewPaymentHandler(paymentUC, cfg.UploadMaxBytes),
		ScheduleHandler:  handler.NewScheduleHandler(scheduleUC),
		BorrowerHandler:  handler.NewBorrowerHandler(userUC),
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		HealthHandler:    handler.NewHealthHandler(pool, redisPinger{redisClient}),
		Logger:           log.Logger,
		Metrics:          m,
		AuthEnabled:      cfg.AuthEnabled,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
	})

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log.Logger),
		Logger:     log.Logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// redisPinger adapts the redis client to the health check interface.
type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
