package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
)

// LearningUseCase maintains the rules learned from operator approvals.
type LearningUseCase struct {
	ruleRepo RuleRepository
	metrics  *metrics.Metrics
}

// NewLearningUseCase creates a new LearningUseCase. m may be nil.
func NewLearningUseCase(ruleRepo RuleRepository, m *metrics.Metrics) *LearningUseCase {
	return &LearningUseCase{
		ruleRepo: ruleRepo,
		metrics:  m,
	}
}

// Reinforce records one more approval of accountID for the exact term.
// It must run inside the transaction that approves the entry.
func (uc *LearningUseCase) Reinforce(ctx context.Context, tx Transaction, term, accountID string) (*domain.ClassificationRule, error) {
	term = domain.NormalizeTerm(term)
	if term == "" {
		return nil, fmt.Errorf("%w: term is empty", domain.ErrInvalidRule)
	}
	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidRule)
	}

	rule, err := uc.ruleRepo.Reinforce(ctx, tx, term, accountID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RulesReinforced.Inc()
	}

	return rule, nil
}

// BestMatch returns the strongest rule for the exact term, or (nil, nil).
func (uc *LearningUseCase) BestMatch(ctx context.Context, term string) (*domain.ClassificationRule, error) {
	term = domain.NormalizeTerm(term)
	if term == "" {
		return nil, nil
	}
	return uc.ruleRepo.BestMatch(ctx, term)
}

// ListRules returns every rule learned for term, best first.
func (uc *LearningUseCase) ListRules(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
	term = domain.NormalizeTerm(term)
	if term == "" {
		return nil, fmt.Errorf("%w: term is required", domain.ErrInvalidRule)
	}

	rules, err := uc.ruleRepo.ListByTerm(ctx, term)
	if err != nil {
		return nil, err
	}

	domain.RankRules(rules)
	return rules, nil
}
