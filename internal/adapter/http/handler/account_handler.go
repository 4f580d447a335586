package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, prefix string) ([]*domain.Account, error)
	Import(ctx context.Context, inputs []usecase.AccountInput) ([]*domain.Account, error)
}

// AccountHandler handles chart of accounts requests.
type AccountHandler struct {
	chartUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(chartUC AccountService) *AccountHandler {
	return &AccountHandler{chartUC: chartUC}
}

// Import upserts chart nodes by code.
func (h *AccountHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportAccountsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	accounts, err := h.chartUC.Import(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to import accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    len(accounts),
	})
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.chartUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts, optionally under a code prefix.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.chartUC.ListAccounts(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    len(accounts),
	})
}
