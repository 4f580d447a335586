package postgres

import (
	"context"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency counts stored entries that break the entry invariants.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	row, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ConsistencyReport{
		TotalEntries:      row.TotalEntries,
		SelfEntries:       row.SelfEntries,
		NonPositiveAmount: row.NonPositiveAmount,
		InvalidLegs:       row.InvalidLegs,
		MissingSuggestion: row.MissingSuggestion,
	}, nil
}
