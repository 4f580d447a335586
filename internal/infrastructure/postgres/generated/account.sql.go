package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const findPostableAccountByKeyword = `-- name: FindPostableAccountByKeyword :one
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE postable AND active AND $1::text = ANY(keywords)
ORDER BY code COLLATE "C"
LIMIT 1
`

func (q *Queries) FindPostableAccountByKeyword(ctx context.Context, keyword string) (Account, error) {
	row := q.db.QueryRow(ctx, findPostableAccountByKeyword, keyword)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.Type,
		&i.Nature,
		&i.Postable,
		&i.Active,
		&i.ParentID,
		&i.Keywords,
		&i.RequiresAudit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByCode = `-- name: GetAccountByCode :one
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE code = $1
`

func (q *Queries) GetAccountByCode(ctx context.Context, code string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByCode, code)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.Type,
		&i.Nature,
		&i.Postable,
		&i.Active,
		&i.ParentID,
		&i.Keywords,
		&i.RequiresAudit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.Type,
		&i.Nature,
		&i.Postable,
		&i.Active,
		&i.ParentID,
		&i.Keywords,
		&i.RequiresAudit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountsByIDs = `-- name: GetAccountsByIDs :many
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE id = ANY($1::text[])
ORDER BY code COLLATE "C"
`

func (q *Queries) GetAccountsByIDs(ctx context.Context, ids []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Description,
			&i.Type,
			&i.Nature,
			&i.Postable,
			&i.Active,
			&i.ParentID,
			&i.Keywords,
			&i.RequiresAudit,
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

const listAccountsByPrefix = `-- name: ListAccountsByPrefix :many
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE starts_with(code, $1::text)
ORDER BY code COLLATE "C"
`

func (q *Queries) ListAccountsByPrefix(ctx context.Context, prefix string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Description,
			&i.Type,
			&i.Nature,
			&i.Postable,
			&i.Active,
			&i.ParentID,
			&i.Keywords,
			&i.RequiresAudit,
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

const listPostableAccountsByPrefix = `-- name: ListPostableAccountsByPrefix :many
SELECT id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at FROM accounts
WHERE postable AND active AND starts_with(code, $1::text)
ORDER BY code COLLATE "C"
`

func (q *Queries) ListPostableAccountsByPrefix(ctx context.Context, prefix string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listPostableAccountsByPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Description,
			&i.Type,
			&i.Nature,
			&i.Postable,
			&i.Active,
			&i.ParentID,
			&i.Keywords,
			&i.RequiresAudit,
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

const upsertAccount = `-- name: UpsertAccount :exec
INSERT INTO accounts (id, code, description, type, nature, postable, active, parent_id, keywords, requires_audit, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (code) DO UPDATE SET
    description = EXCLUDED.description,
    type = EXCLUDED.type,
    nature = EXCLUDED.nature,
    postable = EXCLUDED.postable,
    active = EXCLUDED.active,
    parent_id = EXCLUDED.parent_id,
    keywords = EXCLUDED.keywords,
    requires_audit = EXCLUDED.requires_audit,
    updated_at = EXCLUDED.updated_at
`

type UpsertAccountParams struct {
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

func (q *Queries) UpsertAccount(ctx context.Context, arg UpsertAccountParams) error {
	_, err := q.db.Exec(ctx, upsertAccount,
		arg.ID,
		arg.Code,
		arg.Description,
		arg.Type,
		arg.Nature,
		arg.Postable,
		arg.Active,
		arg.ParentID,
		arg.Keywords,
		arg.RequiresAudit,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
