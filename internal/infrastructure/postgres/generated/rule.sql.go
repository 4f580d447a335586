package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const bestRuleForTerm = `-- name: BestRuleForTerm :one
SELECT id, term, account_id, confidence, created_at, updated_at FROM classification_rules
WHERE term = $1
ORDER BY confidence DESC, updated_at DESC, id DESC
LIMIT 1
`

func (q *Queries) BestRuleForTerm(ctx context.Context, term string) (ClassificationRule, error) {
	row := q.db.QueryRow(ctx, bestRuleForTerm, term)
	var i ClassificationRule
	err := row.Scan(
		&i.ID,
		&i.Term,
		&i.AccountID,
		&i.Confidence,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listRulesByTerm = `-- name: ListRulesByTerm :many
SELECT id, term, account_id, confidence, created_at, updated_at FROM classification_rules
WHERE term = $1
ORDER BY confidence DESC, updated_at DESC, id DESC
`

func (q *Queries) ListRulesByTerm(ctx context.Context, term string) ([]ClassificationRule, error) {
	rows, err := q.db.Query(ctx, listRulesByTerm, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ClassificationRule{}
	for rows.Next() {
		var i ClassificationRule
		if err := rows.Scan(
			&i.ID,
			&i.Term,
			&i.AccountID,
			&i.Confidence,
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

const reinforceRule = `-- name: ReinforceRule :one
INSERT INTO classification_rules (term, account_id, confidence, created_at, updated_at)
VALUES ($1, $2, 1, $3, $3)
ON CONFLICT (term, account_id) DO UPDATE SET
    confidence = classification_rules.confidence + 1,
    updated_at = EXCLUDED.updated_at
RETURNING id, term, account_id, confidence, created_at, updated_at
`

type ReinforceRuleParams struct {
	Term      string             `json:"term"`
	AccountID string             `json:"account_id"`
	Now       pgtype.Timestamptz `json:"now"`
}

func (q *Queries) ReinforceRule(ctx context.Context, arg ReinforceRuleParams) (ClassificationRule, error) {
	row := q.db.QueryRow(ctx, reinforceRule, arg.Term, arg.AccountID, arg.Now)
	var i ClassificationRule
	err := row.Scan(
		&i.ID,
		&i.Term,
		&i.AccountID,
		&i.Confidence,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
