package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/postgres/generated"
	"github.com/iho/contabil/internal/usecase"
)

// RuleRepository implements usecase.RuleRepository.
type RuleRepository struct {
	queries *generated.Queries
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(db generated.DBTX) *RuleRepository {
	return &RuleRepository{queries: generated.New(db)}
}

// Reinforce upserts the (term, account) rule in a single statement, so
// concurrent approvals of the same pair each add exactly one.
func (r *RuleRepository) Reinforce(ctx context.Context, tx usecase.Transaction, term, accountID string, now time.Time) (*domain.ClassificationRule, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.ReinforceRule(ctx, generated.ReinforceRuleParams{
		Term:      term,
		AccountID: accountID,
		Now:       timeToPgTimestamptz(now),
	})
	if err != nil {
		return nil, err
	}

	return rowToRule(row), nil
}

// BestMatch returns the best ranked rule for term, or (nil, nil).
func (r *RuleRepository) BestMatch(ctx context.Context, term string) (*domain.ClassificationRule, error) {
	row, err := r.queries.BestRuleForTerm(ctx, term)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToRule(row), nil
}

// ListByTerm returns every rule learned for term, best first.
func (r *RuleRepository) ListByTerm(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
	rows, err := r.queries.ListRulesByTerm(ctx, term)
	if err != nil {
		return nil, err
	}

	rules := make([]*domain.ClassificationRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, rowToRule(row))
	}

	return rules, nil
}

func rowToRule(row generated.ClassificationRule) *domain.ClassificationRule {
	return &domain.ClassificationRule{
		ID:         row.ID,
		Term:       row.Term,
		AccountID:  row.AccountID,
		Confidence: int(row.Confidence),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
