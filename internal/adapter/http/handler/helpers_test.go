package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/auth"
)

func TestParseEntryFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries?from=2024-01-01&to=2024-01-31&account_id=acc-1", nil)
	filter, err := parseEntryFilter(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.From == nil || filter.From.Day() != 1 || filter.To == nil || filter.To.Day() != 31 {
		t.Fatalf("unexpected range %+v", filter)
	}
	if filter.AccountID != "acc-1" {
		t.Fatalf("expected account acc-1, got %q", filter.AccountID)
	}

	req = httptest.NewRequest(http.MethodGet, "/entries", nil)
	filter, err = parseEntryFilter(req)
	if err != nil || filter.From != nil || filter.To != nil {
		t.Fatalf("expected empty filter, got %+v, %v", filter, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/entries?from=01-01-2024", nil)
	if _, err := parseEntryFilter(req); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"entry not found", fmt.Errorf("load: %w", domain.ErrEntryNotFound), http.StatusNotFound},
		{"parent not found", domain.ErrParentNotFound, http.StatusUnprocessableEntity},
		{"invalid entry", domain.ErrInvalidEntry, http.StatusBadRequest},
		{"invalid amount", fmt.Errorf("%w: %w", domain.ErrInvalidEntry, domain.ErrInvalidAmount), http.StatusBadRequest},
		{"invalid direction", domain.ErrInvalidDirection, http.StatusBadRequest},
		{"invalid account code", domain.ErrInvalidAccountCode, http.StatusBadRequest},
		{"transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"unclassifiable", domain.ErrUnclassifiable, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, "bad", "details")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %s", ct)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "bad" || resp.Message != "details" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestOperatorID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/entries", nil)
	if got := operatorID(req); got != SystemOperator {
		t.Fatalf("expected %s, got %s", SystemOperator, got)
	}

	req = req.WithContext(auth.WithOperator(req.Context(), &auth.Operator{ID: "op-9"}))
	if got := operatorID(req); got != "op-9" {
		t.Fatalf("expected op-9, got %s", got)
	}
}
