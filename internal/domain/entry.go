package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the classification status of a journal entry.
type EntryStatus string

const (
	EntryStatusManual      EntryStatus = "manual"
	EntryStatusSuggested   EntryStatus = "suggested"
	EntryStatusApproved    EntryStatus = "approved"
	EntryStatusNeedsReview EntryStatus = "needs-review"
)

// IsValid reports whether s is a known status.
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusManual, EntryStatusSuggested, EntryStatusApproved, EntryStatusNeedsReview:
		return true
	}
	return false
}

var allowedTransitions = map[EntryStatus][]EntryStatus{
	EntryStatusManual:      {EntryStatusSuggested, EntryStatusNeedsReview},
	EntryStatusSuggested:   {EntryStatusApproved, EntryStatusNeedsReview},
	EntryStatusNeedsReview: {EntryStatusApproved},
}

// Legs is a debit/credit account pair.
type Legs struct {
	DebitAccountID  string `json:"debit_account_id"`
	CreditAccountID string `json:"credit_account_id"`
}

// Origin links an entry back to the business document that produced it.
type Origin struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Suggestion is the classifier proposal stored on a suggested entry.
// AppliedAccountID is the leg resolved from the description; it is the
// account reinforced when the suggestion is approved.
type Suggestion struct {
	DebitAccountID   string `json:"debit_account_id"`
	CreditAccountID  string `json:"credit_account_id"`
	AppliedAccountID string `json:"applied_account_id"`
	Rationale        string `json:"rationale"`
}

// Legs returns the proposed debit/credit pair.
func (s *Suggestion) Legs() Legs {
	return Legs{DebitAccountID: s.DebitAccountID, CreditAccountID: s.CreditAccountID}
}

// JournalEntry is a single double-entry record (lançamento contábil).
type JournalEntry struct {
	ID              string
	Seq             int64
	Date            time.Time
	Memo            string
	Amount          decimal.Decimal
	DebitAccountID  string
	CreditAccountID string
	CostCenterID    *string
	Origin          *Origin
	Status          EntryStatus
	Confidence      *int
	Suggestion      *Suggestion
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanTransition checks whether the entry may move to next.
func (e *JournalEntry) CanTransition(next EntryStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	allowed := false
	for _, s := range allowedTransitions[e.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, next)
	}

	if next == EntryStatusApproved && e.Suggestion == nil {
		return fmt.Errorf("%w: entry has no pending suggestion", ErrInvalidTransition)
	}

	return nil
}

// EntryDraft is the input for posting a new journal entry.
type EntryDraft struct {
	Date            time.Time
	Memo            string
	Amount          decimal.Decimal
	DebitAccountID  string
	CreditAccountID string
	CostCenterID    *string
	Origin          *Origin
	Status          EntryStatus
	Confidence      *int
	Suggestion      *Suggestion
	CreatedBy       string
}

// Validate checks the draft's own invariants. Account existence and
// postability are checked against the chart by the ledger.
func (d *EntryDraft) Validate() error {
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}

	if d.DebitAccountID == "" || d.CreditAccountID == "" {
		return fmt.Errorf("%w: both debit and credit accounts are required", ErrInvalidEntry)
	}

	if d.DebitAccountID == d.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts must differ", ErrInvalidEntry)
	}

	if err := ValidateMemo(d.Memo); err != nil {
		return err
	}

	if d.Date.IsZero() {
		return fmt.Errorf("%w: entry date is required", ErrInvalidEntry)
	}

	if d.Status != "" && !d.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, d.Status)
	}

	if d.Status == EntryStatusApproved {
		return fmt.Errorf("%w: entries cannot be posted as approved", ErrInvalidEntry)
	}

	if d.Status == EntryStatusSuggested && d.Suggestion == nil {
		return fmt.Errorf("%w: suggested entries need a suggestion", ErrInvalidEntry)
	}

	if s := d.Suggestion; s != nil && (s.DebitAccountID == "" || s.CreditAccountID == "" || s.DebitAccountID == s.CreditAccountID) {
		return fmt.Errorf("%w: suggestion needs two distinct legs", ErrInvalidEntry)
	}

	if d.Confidence != nil && (*d.Confidence < 0 || *d.Confidence > 100) {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidEntry)
	}

	if d.Origin != nil && (d.Origin.Type == "" || d.Origin.ID == "") {
		return fmt.Errorf("%w: origin needs both type and id", ErrInvalidEntry)
	}

	return nil
}

// AccountIDs returns the accounts a draft references, suggestion legs included.
func (d *EntryDraft) AccountIDs() []string {
	ids := []string{d.DebitAccountID, d.CreditAccountID}
	if d.Suggestion != nil {
		ids = append(ids, d.Suggestion.DebitAccountID, d.Suggestion.CreditAccountID)
	}
	return ids
}

// EntryFilter selects entries for queries and reports. From and To are inclusive.
type EntryFilter struct {
	From      *time.Time
	To        *time.Time
	AccountID string
}

// Matches reports whether e falls inside the filter.
func (f EntryFilter) Matches(e *JournalEntry) bool {
	date := TruncateDate(e.Date)
	if f.From != nil && date.Before(TruncateDate(*f.From)) {
		return false
	}
	if f.To != nil && date.After(TruncateDate(*f.To)) {
		return false
	}
	if f.AccountID != "" && e.DebitAccountID != f.AccountID && e.CreditAccountID != f.AccountID {
		return false
	}
	return true
}

// TruncateDate drops the time of day, keeping the civil date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
