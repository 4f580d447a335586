package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createJournalEntry = `-- name: CreateJournalEntry :one
INSERT INTO journal_entries (
    id, entry_date, memo, amount, debit_account_id, credit_account_id,
    cost_center_id, origin_type, origin_id, status, confidence, suggestion,
    created_by, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING seq
`

type CreateJournalEntryParams struct {
	ID              string             `json:"id"`
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

func (q *Queries) CreateJournalEntry(ctx context.Context, arg CreateJournalEntryParams) (int64, error) {
	row := q.db.QueryRow(ctx, createJournalEntry,
		arg.ID,
		arg.EntryDate,
		arg.Memo,
		arg.Amount,
		arg.DebitAccountID,
		arg.CreditAccountID,
		arg.CostCenterID,
		arg.OriginType,
		arg.OriginID,
		arg.Status,
		arg.Confidence,
		arg.Suggestion,
		arg.CreatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var seq int64
	err := row.Scan(&seq)
	return seq, err
}

const getJournalEntryByID = `-- name: GetJournalEntryByID :one
SELECT id, seq, entry_date, memo, amount, debit_account_id, credit_account_id, cost_center_id, origin_type, origin_id, status, confidence, suggestion, created_by, created_at, updated_at FROM journal_entries
WHERE id = $1
`

func (q *Queries) GetJournalEntryByID(ctx context.Context, id string) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntryByID, id)
	var i JournalEntry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.EntryDate,
		&i.Memo,
		&i.Amount,
		&i.DebitAccountID,
		&i.CreditAccountID,
		&i.CostCenterID,
		&i.OriginType,
		&i.OriginID,
		&i.Status,
		&i.Confidence,
		&i.Suggestion,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getJournalEntryByIDForUpdate = `-- name: GetJournalEntryByIDForUpdate :one
SELECT id, seq, entry_date, memo, amount, debit_account_id, credit_account_id, cost_center_id, origin_type, origin_id, status, confidence, suggestion, created_by, created_at, updated_at FROM journal_entries
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetJournalEntryByIDForUpdate(ctx context.Context, id string) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntryByIDForUpdate, id)
	var i JournalEntry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.EntryDate,
		&i.Memo,
		&i.Amount,
		&i.DebitAccountID,
		&i.CreditAccountID,
		&i.CostCenterID,
		&i.OriginType,
		&i.OriginID,
		&i.Status,
		&i.Confidence,
		&i.Suggestion,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const queryJournalEntries = `-- name: QueryJournalEntries :many
SELECT id, seq, entry_date, memo, amount, debit_account_id, credit_account_id, cost_center_id, origin_type, origin_id, status, confidence, suggestion, created_by, created_at, updated_at FROM journal_entries
WHERE ($1::date IS NULL OR entry_date >= $1::date)
  AND ($2::date IS NULL OR entry_date <= $2::date)
  AND ($3::text IS NULL OR debit_account_id = $3::text OR credit_account_id = $3::text)
ORDER BY entry_date, seq
`

type QueryJournalEntriesParams struct {
	FromDate  pgtype.Date `json:"from_date"`
	ToDate    pgtype.Date `json:"to_date"`
	AccountID pgtype.Text `json:"account_id"`
}

func (q *Queries) QueryJournalEntries(ctx context.Context, arg QueryJournalEntriesParams) ([]JournalEntry, error) {
	rows, err := q.db.Query(ctx, queryJournalEntries, arg.FromDate, arg.ToDate, arg.AccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []JournalEntry{}
	for rows.Next() {
		var i JournalEntry
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.EntryDate,
			&i.Memo,
			&i.Amount,
			&i.DebitAccountID,
			&i.CreditAccountID,
			&i.CostCenterID,
			&i.OriginType,
			&i.OriginID,
			&i.Status,
			&i.Confidence,
			&i.Suggestion,
			&i.CreatedBy,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateJournalEntryStatus = `-- name: UpdateJournalEntryStatus :exec
UPDATE journal_entries
SET status = $2,
    debit_account_id = $3,
    credit_account_id = $4,
    confidence = $5,
    suggestion = $6,
    updated_at = $7
WHERE id = $1
`

type UpdateJournalEntryStatusParams struct {
	ID              string             `json:"id"`
	Status          string             `json:"status"`
	DebitAccountID  string             `json:"debit_account_id"`
	CreditAccountID string             `json:"credit_account_id"`
	Confidence      pgtype.Int4        `json:"confidence"`
	Suggestion      []byte             `json:"suggestion"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateJournalEntryStatus(ctx context.Context, arg UpdateJournalEntryStatusParams) error {
	_, err := q.db.Exec(ctx, updateJournalEntryStatus,
		arg.ID,
		arg.Status,
		arg.DebitAccountID,
		arg.CreditAccountID,
		arg.Confidence,
		arg.Suggestion,
		arg.UpdatedAt,
	)
	return err
}
