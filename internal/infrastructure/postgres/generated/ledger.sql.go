package generated

import (
	"context"
)

const checkLedgerConsistency = `-- name: CheckLedgerConsistency :one
SELECT
    COUNT(*)::bigint AS total_entries,
    COUNT(*) FILTER (WHERE e.debit_account_id = e.credit_account_id)::bigint AS self_entries,
    COUNT(*) FILTER (WHERE e.amount <= 0)::bigint AS non_positive_amount,
    COUNT(*) FILTER (WHERE d.id IS NULL OR c.id IS NULL OR NOT d.postable OR NOT c.postable)::bigint AS invalid_legs,
    COUNT(*) FILTER (WHERE e.status = 'suggested' AND e.suggestion IS NULL)::bigint AS missing_suggestion
FROM journal_entries e
LEFT JOIN accounts d ON d.id = e.debit_account_id
LEFT JOIN accounts c ON c.id = e.credit_account_id
`

type CheckLedgerConsistencyRow struct {
	TotalEntries      int64 `json:"total_entries"`
	SelfEntries       int64 `json:"self_entries"`
	NonPositiveAmount int64 `json:"non_positive_amount"`
	InvalidLegs       int64 `json:"invalid_legs"`
	MissingSuggestion int64 `json:"missing_suggestion"`
}

func (q *Queries) CheckLedgerConsistency(ctx context.Context) (CheckLedgerConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkLedgerConsistency)
	var i CheckLedgerConsistencyRow
	err := row.Scan(
		&i.TotalEntries,
		&i.SelfEntries,
		&i.NonPositiveAmount,
		&i.InvalidLegs,
		&i.MissingSuggestion,
	)
	return i, err
}
