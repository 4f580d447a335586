package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// LedgerService defines the ledger behavior needed by EntryHandler.
type LedgerService interface {
	Post(ctx context.Context, draft domain.EntryDraft) (*domain.JournalEntry, error)
	PostBatch(ctx context.Context, drafts []domain.EntryDraft) ([]*domain.JournalEntry, error)
	Get(ctx context.Context, id string) (*domain.JournalEntry, error)
	Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
}

// ReviewService defines the review workflow needed by EntryHandler.
type ReviewService interface {
	Approve(ctx context.Context, entryID string, legs *domain.Legs) (*domain.JournalEntry, error)
	MarkForReview(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// ExportService defines the export behavior needed by EntryHandler.
type ExportService interface {
	ExportEntries(ctx context.Context, filter domain.EntryFilter) ([]usecase.ExportRow, error)
}

// EntryHandler handles journal entry requests.
type EntryHandler struct {
	ledgerUC LedgerService
	reviewUC ReviewService
	exportUC ExportService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgerUC LedgerService, reviewUC ReviewService, exportUC ExportService) *EntryHandler {
	return &EntryHandler{
		ledgerUC: ledgerUC,
		reviewUC: reviewUC,
		exportUC: exportUC,
	}
}

// Post posts a manual entry.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	draft, err := req.ToDraft(operatorID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.ledgerUC.Post(r.Context(), draft)
	if err != nil {
		writeDomainError(w, "failed to post entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// PostBatch posts several manual entries in one transaction.
func (h *EntryHandler) PostBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	drafts, err := req.ToDrafts(operatorID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entries, err := h.ledgerUC.PostBatch(r.Context(), drafts)
	if err != nil {
		writeDomainError(w, "failed to post entries", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   len(entries),
	})
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.ledgerUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Query lists entries by date range and account.
func (h *EntryHandler) Query(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	entries, err := h.ledgerUC.Query(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to query entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   len(entries),
	})
}

// Export returns denormalized entries as CSV or JSON (?format=csv|json).
func (h *EntryHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "invalid query", "format must be csv or json")
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	rows, err := h.exportUC.ExportEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to export entries", err)
		return
	}

	resp := dto.ExportRowsFromUseCase(rows)
	if format == "json" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write(dto.ExportHeader)
	for _, row := range resp {
		cw.Write(row.Record())
	}
	cw.Flush()
}

// Approve approves a suggested entry, optionally with corrected legs.
func (h *EntryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.ApproveRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	legs, err := req.Legs()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.reviewUC.Approve(r.Context(), id, legs)
	if err != nil {
		writeDomainError(w, "failed to approve entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Review flags an entry for operator review.
func (h *EntryHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.reviewUC.MarkForReview(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to flag entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
