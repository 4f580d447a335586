package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/adapter/http/handler"
	apimiddleware "github.com/iho/contabil/internal/adapter/http/middleware"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/auth"
	"github.com/iho/contabil/internal/infrastructure/metrics"
	"github.com/iho/contabil/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = metrics.New(reg)
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `contabil_http_requests_total{method="GET",path="/health",status="200"} 1`) {
		t.Fatalf("expected health request to be counted, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"direction":"payable","description":"energia","amount":"10","date":"2024-01-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !store.checkCalled || !store.updateCalled {
		t.Fatalf("expected idempotency store to be used, check=%v update=%v", store.checkCalled, store.updateCalled)
	}
}

func TestNewRouter_AuthEnforcesRoles(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.TokenVerifier = jwtManager
	}))

	viewer, _ := jwtManager.Generate(auth.Operator{ID: "v", Role: auth.RoleViewer})
	operator, _ := jwtManager.Generate(auth.Operator{ID: "o", Role: auth.RoleOperator})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous read", http.MethodGet, "/api/v1/accounts/", "", http.StatusUnauthorized},
		{"viewer read", http.MethodGet, "/api/v1/accounts/", viewer, http.StatusOK},
		{"viewer review", http.MethodPost, "/api/v1/entries/e1/review", viewer, http.StatusForbidden},
		{"operator review", http.MethodPost, "/api/v1/entries/e1/review", operator, http.StatusOK},
		{"operator chart import", http.MethodPut, "/api/v1/accounts/", operator, http.StatusForbidden},
		{"health stays open", http.MethodGet, "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"accounts":[]}`))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/accounts/",
		"PUT /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"POST /api/v1/entries/",
		"POST /api/v1/entries/batch",
		"GET /api/v1/entries/",
		"GET /api/v1/entries/export",
		"GET /api/v1/entries/{id}",
		"POST /api/v1/entries/{id}/approve",
		"POST /api/v1/entries/{id}/review",
		"POST /api/v1/movements/",
		"POST /api/v1/movements/batch",
		"POST /api/v1/movements/classify",
		"GET /api/v1/rules",
		"GET /api/v1/reports/balancete",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:   handler.NewHealthHandler(),
		AccountHandler:  handler.NewAccountHandler(stubChart{}),
		EntryHandler:    handler.NewEntryHandler(stubLedger{}, stubReview{}, stubReports{}),
		MovementHandler: handler.NewMovementHandler(stubPosting{}),
		RuleHandler:     handler.NewRuleHandler(stubRules{}),
		ReportHandler:   handler.NewReportHandler(stubReports{}),
		LedgerHandler:   handler.NewLedgerHandler(stubLedger{}),
		Logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func stubEntry(id string, status domain.EntryStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:              id,
		Date:            time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Memo:            "stub",
		Amount:          decimal.RequireFromString("10"),
		DebitAccountID:  "d",
		CreditAccountID: "c",
		Status:          status,
	}
}

type stubChart struct{}

func (stubChart) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (stubChart) ListAccounts(ctx context.Context, prefix string) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

func (stubChart) Import(ctx context.Context, inputs []usecase.AccountInput) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubLedger struct{}

func (stubLedger) Post(ctx context.Context, draft domain.EntryDraft) (*domain.JournalEntry, error) {
	return stubEntry("e1", domain.EntryStatusManual), nil
}

func (stubLedger) PostBatch(ctx context.Context, drafts []domain.EntryDraft) ([]*domain.JournalEntry, error) {
	return []*domain.JournalEntry{}, nil
}

func (stubLedger) Get(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return stubEntry(id, domain.EntryStatusManual), nil
}

func (stubLedger) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	return []*domain.JournalEntry{}, nil
}

func (stubLedger) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return &domain.ConsistencyReport{}, nil
}

type stubReview struct{}

func (stubReview) Approve(ctx context.Context, entryID string, legs *domain.Legs) (*domain.JournalEntry, error) {
	return stubEntry(entryID, domain.EntryStatusApproved), nil
}

func (stubReview) MarkForReview(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return stubEntry(entryID, domain.EntryStatusNeedsReview), nil
}

type stubReports struct{}

func (stubReports) ExportEntries(ctx context.Context, filter domain.EntryFilter) ([]usecase.ExportRow, error) {
	return []usecase.ExportRow{}, nil
}

func (stubReports) ComputeBalancete(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error) {
	return &usecase.Balancete{Total: decimal.Zero}, nil
}

type stubPosting struct{}

func (stubPosting) Classify(ctx context.Context, m domain.Movement) (*usecase.Preview, error) {
	return &usecase.Preview{Classification: &domain.Classification{}, Status: domain.EntryStatusManual}, nil
}

func (stubPosting) ClassifyAndPost(ctx context.Context, input usecase.ClassifyAndPostInput) (*usecase.PostedMovement, error) {
	return &usecase.PostedMovement{Entry: stubEntry("e1", domain.EntryStatusManual), Classification: &domain.Classification{}}, nil
}

func (stubPosting) ClassifyAndPostBatch(ctx context.Context, inputs []usecase.ClassifyAndPostInput) ([]*usecase.PostedMovement, error) {
	return []*usecase.PostedMovement{}, nil
}

type stubRules struct{}

func (stubRules) ListRules(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
	return []*domain.ClassificationRule{}, nil
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
