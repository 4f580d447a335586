package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/contabil/internal/adapter/http"
	"github.com/iho/contabil/internal/adapter/http/handler"
	"github.com/iho/contabil/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/contabil/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/contabil/internal/adapter/repository/redis"
	"github.com/iho/contabil/internal/infrastructure/auth"
	"github.com/iho/contabil/internal/infrastructure/config"
	"github.com/iho/contabil/internal/infrastructure/eventpublisher"
	"github.com/iho/contabil/internal/infrastructure/logger"
	"github.com/iho/contabil/internal/infrastructure/metrics"
	"github.com/iho/contabil/internal/infrastructure/postgres"
	"github.com/iho/contabil/internal/infrastructure/redis"
	"github.com/iho/contabil/internal/usecase"
)

const (
	rateLimiterCleanupInterval = time.Hour
	poolStatsInterval          = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Run migrations before the pool starts handing out connections
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	chartCache := redisRepo.NewCachedAccountRepository(
		postgresRepo.NewAccountRepository(pool),
		redisRepo.NewChartCache(redisClient),
		cfg.ChartCacheTTL,
		log,
		m,
	)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	// Initialize use cases
	chartUC := usecase.NewChartUseCase(txManager, chartCache, idGen, chartCache, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, chartCache, entryRepo, outboxRepo, ledgerRepo, idGen, m)
	learningUC := usecase.NewLearningUseCase(ruleRepo, m)
	classifier := usecase.NewClassifier(chartUC, learningUC, classificationPolicy(cfg), log)
	postingUC := usecase.NewPostingUseCase(txManager, retrier, classifier, ledgerUC, learningUC, log, m)
	reportUC := usecase.NewReportUseCase(chartCache, entryRepo)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(
		handler.HealthCheck{Name: "postgres", Check: pool.Ping},
		handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(chartUC),
		EntryHandler:     handler.NewEntryHandler(ledgerUC, postingUC, reportUC),
		MovementHandler:  handler.NewMovementHandler(postingUC),
		RuleHandler:      handler.NewRuleHandler(learningUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		TokenVerifier:    tokenVerifier(cfg),
		Logger:           log,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// Background workers
	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  redisRepo.NewEventPublisher(redisClient, cfg.OutboxChannel),
			Logger:     log.With().Str("component", "outbox").Logger(),
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}
	go every(ctx, rateLimiterCleanupInterval, rateLimiter.CleanupLimiters)
	go every(ctx, poolStatsInterval, func() { reportPoolStats(pool, m) })

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// classificationPolicy maps the CLASSIFY_* settings onto the classifier policy.
func classificationPolicy(cfg *config.Config) usecase.ClassificationPolicy {
	return usecase.ClassificationPolicy{
		ReviewThreshold:         cfg.ClassifyReviewThreshold,
		SuggestionConfidence:    cfg.ClassifySuggestionConfidence,
		PayableCounterPrefix:    cfg.ClassifyPayablePrefix,
		ReceivableCounterPrefix: cfg.ClassifyReceivablePrefix,
	}
}

// tokenVerifier returns nil when authentication is disabled.
func tokenVerifier(cfg *config.Config) middleware.TokenVerifier {
	if !cfg.AuthEnabled {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
}

func reportPoolStats(pool *pgxpool.Pool, m *metrics.Metrics) {
	m.DBConnections.Set(float64(pool.Stat().AcquiredConns()))
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
