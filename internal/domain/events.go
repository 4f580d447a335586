package domain

import "time"

// Event types
const (
	EventTypeEntryPosted          = "entry.posted"
	EventTypeEntryApproved        = "entry.approved"
	EventTypeEntryReviewRequested = "entry.review_requested"
)

// AggregateTypeEntry tags events emitted for journal entries.
const AggregateTypeEntry = "journal_entry"

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryEventPayload builds the payload shared by all entry events.
func EntryEventPayload(e *JournalEntry) map[string]any {
	payload := map[string]any{
		"entry_id":          e.ID,
		"date":              e.Date.Format(time.DateOnly),
		"amount":            e.Amount.StringFixed(CurrencyPlaces),
		"debit_account_id":  e.DebitAccountID,
		"credit_account_id": e.CreditAccountID,
		"status":            string(e.Status),
	}
	if e.Origin != nil {
		payload["origin_type"] = e.Origin.Type
		payload["origin_id"] = e.Origin.ID
	}
	return payload
}
