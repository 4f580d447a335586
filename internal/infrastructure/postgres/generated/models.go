package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID            string             `json:"id"`
	Code          string             `json:"code"`
	Description   string             `json:"description"`
	Type          string             `json:"type"`
	Nature        string             `json:"nature"`
	Postable      bool               `json:"postable"`
	Active        bool               `json:"active"`
	ParentID      pgtype.Text        `json:"parent_id"`
	Keywords      []string           `json:"keywords"`
	RequiresAudit bool               `json:"requires_audit"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type ClassificationRule struct {
	ID         int64              `json:"id"`
	Term       string             `json:"term"`
	AccountID  string             `json:"account_id"`
	Confidence int32              `json:"confidence"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type JournalEntry struct {
	ID              string             `json:"id"`
	Seq             int64              `json:"seq"`
	EntryDate       pgtype.Date        `json:"entry_date"`
	Memo            string             `json:"memo"`
	Amount          pgtype.Numeric     `json:"amount"`
	DebitAccountID  string             `json:"debit_account_id"`
	CreditAccountID string             `json:"credit_account_id"`
	CostCenterID    pgtype.Text        `json:"cost_center_id"`
	OriginType      pgtype.Text        `json:"origin_type"`
	OriginID        pgtype.Text        `json:"origin_id"`
	Status          string             `json:"status"`
	Confidence      pgtype.Int4        `json:"confidence"`
	Suggestion      []byte             `json:"suggestion"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}
