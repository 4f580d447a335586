package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/contabil/internal/adapter/http/handler"
	"github.com/iho/contabil/internal/adapter/http/middleware"
	"github.com/iho/contabil/internal/infrastructure/auth"
	"github.com/iho/contabil/internal/infrastructure/metrics"
	"github.com/iho/contabil/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler  *handler.AccountHandler
	EntryHandler    *handler.EntryHandler
	MovementHandler *handler.MovementHandler
	RuleHandler     *handler.RuleHandler
	ReportHandler   *handler.ReportHandler
	LedgerHandler   *handler.LedgerHandler
	HealthHandler   *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	// TokenVerifier enables bearer authentication when set.
	TokenVerifier  middleware.TokenVerifier
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	role := func(min auth.Role) func(http.Handler) http.Handler {
		if cfg.TokenVerifier == nil {
			return passthrough
		}
		return middleware.RequireRole(min)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(role(auth.RoleViewer)).Get("/", cfg.AccountHandler.List)
			r.With(role(auth.RoleViewer)).Get("/{id}", cfg.AccountHandler.Get)
			r.With(role(auth.RoleAdmin)).Put("/", cfg.AccountHandler.Import)
		})

		// Journal entries
		r.Route("/entries", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(role(auth.RoleViewer))
				r.Get("/", cfg.EntryHandler.Query)
				r.Get("/export", cfg.EntryHandler.Export)
				r.Get("/{id}", cfg.EntryHandler.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(role(auth.RoleOperator))
				r.Post("/", cfg.EntryHandler.Post)
				r.Post("/batch", cfg.EntryHandler.PostBatch)
				r.Post("/{id}/approve", cfg.EntryHandler.Approve)
				r.Post("/{id}/review", cfg.EntryHandler.Review)
			})
		})

		// Settled movements
		r.Route("/movements", func(r chi.Router) {
			r.With(role(auth.RoleViewer)).Post("/classify", cfg.MovementHandler.Classify)
			r.Group(func(r chi.Router) {
				r.Use(role(auth.RoleOperator))
				r.Post("/", cfg.MovementHandler.ClassifyAndPost)
				r.Post("/batch", cfg.MovementHandler.Batch)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(role(auth.RoleViewer))
			r.Get("/rules", cfg.RuleHandler.List)
			r.Get("/reports/balancete", cfg.ReportHandler.Balancete)
			r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
