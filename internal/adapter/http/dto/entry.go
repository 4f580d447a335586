package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
)

// PostEntryRequest represents a manual journal entry.
type PostEntryRequest struct {
	Date            Date       `json:"date"`
	Memo            string     `json:"memo"`
	Amount          string     `json:"amount"`
	DebitAccountID  string     `json:"debit_account_id"`
	CreditAccountID string     `json:"credit_account_id"`
	CostCenterID    *string    `json:"cost_center_id,omitempty"`
	Origin          *OriginDTO `json:"origin,omitempty"`
}

// ToDraft converts to a domain draft.
func (r *PostEntryRequest) ToDraft(createdBy string) (domain.EntryDraft, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.EntryDraft{}, errors.New("invalid amount format")
	}

	return domain.EntryDraft{
		Date:            r.Date.Time,
		Memo:            r.Memo,
		Amount:          amount,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		CostCenterID:    r.CostCenterID,
		Origin:          r.Origin.toDomain(),
		Status:          domain.EntryStatusManual,
		CreatedBy:       createdBy,
	}, nil
}

// PostEntryBatchRequest posts several entries atomically.
type PostEntryBatchRequest struct {
	Entries []PostEntryRequest `json:"entries"`
}

// ToDrafts converts every entry, stopping at the first malformed one.
func (r *PostEntryBatchRequest) ToDrafts(createdBy string) ([]domain.EntryDraft, error) {
	drafts := make([]domain.EntryDraft, len(r.Entries))
	for i := range r.Entries {
		d, err := r.Entries[i].ToDraft(createdBy)
		if err != nil {
			return nil, err
		}
		drafts[i] = d
	}
	return drafts, nil
}

// SuggestionResponse is the stored classifier proposal of an entry.
type SuggestionResponse struct {
	DebitAccountID   string `json:"debit_account_id"`
	CreditAccountID  string `json:"credit_account_id"`
	AppliedAccountID string `json:"applied_account_id"`
	Rationale        string `json:"rationale"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID              string              `json:"id"`
	Seq             int64               `json:"seq"`
	Date            Date                `json:"date"`
	Memo            string              `json:"memo"`
	Amount          string              `json:"amount"`
	DebitAccountID  string              `json:"debit_account_id"`
	CreditAccountID string              `json:"credit_account_id"`
	CostCenterID    *string             `json:"cost_center_id,omitempty"`
	Origin          *OriginDTO          `json:"origin,omitempty"`
	Status          string              `json:"status"`
	Confidence      *int                `json:"confidence,omitempty"`
	Suggestion      *SuggestionResponse `json:"suggestion,omitempty"`
	CreatedBy       string              `json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	resp := &EntryResponse{
		ID:              e.ID,
		Seq:             e.Seq,
		Date:            NewDate(e.Date),
		Memo:            e.Memo,
		Amount:          e.Amount.StringFixed(domain.CurrencyPlaces),
		DebitAccountID:  e.DebitAccountID,
		CreditAccountID: e.CreditAccountID,
		CostCenterID:    e.CostCenterID,
		Origin:          originFromDomain(e.Origin),
		Status:          string(e.Status),
		Confidence:      e.Confidence,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if s := e.Suggestion; s != nil {
		resp.Suggestion = &SuggestionResponse{
			DebitAccountID:   s.DebitAccountID,
			CreditAccountID:  s.CreditAccountID,
			AppliedAccountID: s.AppliedAccountID,
			Rationale:        s.Rationale,
		}
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse is a ledger query result.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int              `json:"total"`
}

// ApproveRequest approves a suggested entry. Without legs the stored
// suggestion is applied; with legs the operator's correction is.
type ApproveRequest struct {
	DebitAccountID  string `json:"debit_account_id,omitempty"`
	CreditAccountID string `json:"credit_account_id,omitempty"`
}

// Legs returns the corrected legs, or nil to apply the suggestion.
func (r *ApproveRequest) Legs() (*domain.Legs, error) {
	if r.DebitAccountID == "" && r.CreditAccountID == "" {
		return nil, nil
	}
	if r.DebitAccountID == "" || r.CreditAccountID == "" {
		return nil, errors.New("both debit_account_id and credit_account_id are required to correct legs")
	}
	return &domain.Legs{DebitAccountID: r.DebitAccountID, CreditAccountID: r.CreditAccountID}, nil
}
