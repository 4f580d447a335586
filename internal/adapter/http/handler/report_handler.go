package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	ComputeBalancete(ctx context.Context, input usecase.BalanceteInput) (*usecase.Balancete, error)
}

// RuleService defines the behavior needed by RuleHandler.
type RuleService interface {
	ListRules(ctx context.Context, term string) ([]*domain.ClassificationRule, error)
}

// ConsistencyService defines the behavior needed by LedgerHandler.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// ReportHandler serves ledger reports.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Balancete computes a trial balance for ?from, ?to and ?account_id.
func (h *ReportHandler) Balancete(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	b, err := h.reportUC.ComputeBalancete(r.Context(), usecase.BalanceteInput{
		From:      filter.From,
		To:        filter.To,
		AccountID: filter.AccountID,
	})
	if err != nil {
		writeDomainError(w, "failed to compute balancete", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceteFromUseCase(b))
}

// RuleHandler exposes learned classification rules.
type RuleHandler struct {
	learningUC RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(learningUC RuleService) *RuleHandler {
	return &RuleHandler{learningUC: learningUC}
}

// List returns the ranked rules learned for ?term.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing term", "")
		return
	}

	rules, err := h.learningUC.ListRules(r.Context(), term)
	if err != nil {
		writeDomainError(w, "failed to list rules", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRulesResponse{Rules: dto.RulesFromDomain(rules)})
}

// LedgerHandler serves ledger-wide health checks.
type LedgerHandler struct {
	ledgerUC ConsistencyService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC ConsistencyService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Consistency reports entries violating the posting invariants.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(report))
}
