package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

type reportServiceStub struct {
	balanceteFn func(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error)
}

func (s *reportServiceStub) ComputeBalancete(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error) {
	return s.balanceteFn(ctx, input)
}

type ruleServiceStub struct {
	listFn func(ctx context.Context, term string) ([]*domain.ClassificationRule, error)
}

func (s *ruleServiceStub) ListRules(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
	return s.listFn(ctx, term)
}

type consistencyServiceStub struct {
	report *domain.ConsistencyReport
	err    error
}

func (s *consistencyServiceStub) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return s.report, s.err
}

func TestReportHandler_Balancete(t *testing.T) {
	var captured usecase.BalanceteInput
	handler := NewReportHandler(&reportServiceStub{
		balanceteFn: func(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error) {
			captured = input
			return &usecase.Balancete{
				From: input.From,
				To:   input.To,
				Rows: []domain.BalanceRow{
					{Account: &domain.Account{ID: "cash", Code: "1.1.01"}, Balance: decimal.RequireFromString("-100")},
					{Account: &domain.Account{ID: "rent", Code: "4.1.01"}, Balance: decimal.RequireFromString("100")},
				},
				Total: decimal.Zero,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/balancete?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()

	handler.Balancete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.From == nil || captured.To == nil {
		t.Fatalf("expected range to be passed, got %+v", captured)
	}

	var resp dto.BalanceteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rows) != 2 || resp.Rows[0].Balance != "-100.00" || resp.Total != "0.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestReportHandler_Balancete_InvertedRange(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{
		balanceteFn: func(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error) {
			return nil, domain.ErrInvalidEntry
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/balancete?from=2024-02-01&to=2024-01-01", nil)
	rec := httptest.NewRecorder()

	handler.Balancete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRuleHandler_List(t *testing.T) {
	handler := NewRuleHandler(&ruleServiceStub{
		listFn: func(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
			if term != "Conta de energia" {
				t.Errorf("unexpected term %q", term)
			}
			return []*domain.ClassificationRule{{ID: 2, Term: term, AccountID: "energy", Confidence: 3}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/rules?term=Conta+de+energia", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListRulesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rules) != 1 || resp.Rules[0].Confidence != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}

	rec = httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/rules", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without term, got %d", rec.Code)
	}
}

func TestLedgerHandler_Consistency(t *testing.T) {
	handler := NewLedgerHandler(&consistencyServiceStub{report: &domain.ConsistencyReport{TotalEntries: 10}})

	rec := httptest.NewRecorder()
	handler.Consistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Consistent || resp.TotalEntries != 10 {
		t.Fatalf("unexpected response %+v", resp)
	}

	handler = NewLedgerHandler(&consistencyServiceStub{err: errors.New("db down")})
	rec = httptest.NewRecorder()
	handler.Consistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
