package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
)

// ClassificationPolicy holds the tunables of the classification engine.
type ClassificationPolicy struct {
	// ReviewThreshold is the amount above which postings are flagged for review.
	ReviewThreshold decimal.Decimal
	// SuggestionConfidence is stored on entries flagged by the threshold.
	SuggestionConfidence int
	// PayableCounterPrefix selects the liquidity account credited by payables.
	PayableCounterPrefix string
	// ReceivableCounterPrefix selects the revenue account debited by receivables.
	ReceivableCounterPrefix string
}

// DefaultClassificationPolicy returns the policy used when nothing is configured.
func DefaultClassificationPolicy() ClassificationPolicy {
	return ClassificationPolicy{
		ReviewThreshold:         decimal.RequireFromString(DefaultReviewThreshold),
		SuggestionConfidence:    DefaultSuggestionConfidence,
		PayableCounterPrefix:    DefaultPayableCounterPrefix,
		ReceivableCounterPrefix: DefaultReceivableCounterPrefix,
	}
}

// CounterPrefix returns the chart prefix of the counter leg for direction.
func (p ClassificationPolicy) CounterPrefix(direction domain.Direction) string {
	if direction == domain.DirectionReceivable {
		return p.ReceivableCounterPrefix
	}
	return p.PayableCounterPrefix
}

// NeedsReview reports whether amount is above the review threshold.
func (p ClassificationPolicy) NeedsReview(amount decimal.Decimal) bool {
	return amount.GreaterThan(p.ReviewThreshold)
}

// Classifier proposes a debit/credit pair for a movement. It only reads the
// chart and the learned rules; it never writes.
type Classifier struct {
	chart    ChartOfAccounts
	learning LearningStore
	policy   ClassificationPolicy
	logger   zerolog.Logger
}

// NewClassifier creates a new Classifier.
func NewClassifier(chart ChartOfAccounts, learning LearningStore, policy ClassificationPolicy, logger zerolog.Logger) *Classifier {
	return &Classifier{
		chart:    chart,
		learning: learning,
		policy:   policy,
		logger:   logger.With().Str("component", "classifier").Logger(),
	}
}

// Policy returns the classifier's policy.
func (c *Classifier) Policy() ClassificationPolicy {
	return c.policy
}

// Classify resolves the applied account of m by learned rule, then keyword,
// then fallback account, and pairs it with the direction's counter account.
func (c *Classifier) Classify(ctx context.Context, m domain.Movement) (*domain.Classification, error) {
	if !m.Direction.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, m.Direction)
	}

	counter, err := c.counterAccount(ctx, m.Direction)
	if err != nil {
		return nil, err
	}

	result, err := c.resolveApplied(ctx, m, counter.ID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		c.logger.Debug().
			Str("direction", string(m.Direction)).
			Str("description", m.Description).
			Msg("movement is unclassifiable")
		return nil, fmt.Errorf("%w: no learned rule, keyword or fallback account for %q", domain.ErrUnclassifiable, m.Description)
	}

	legs := domain.AssignLegs(m.Direction, result.AppliedAccountID, counter.ID)
	result.DebitAccountID = legs.DebitAccountID
	result.CreditAccountID = legs.CreditAccountID
	result.CounterAccountID = counter.ID

	c.logger.Debug().
		Str("direction", string(m.Direction)).
		Str("source", string(result.Source)).
		Str("applied_account_id", result.AppliedAccountID).
		Str("counter_account_id", counter.ID).
		Int("confidence", result.Confidence).
		Msg("movement classified")

	return result, nil
}

func (c *Classifier) counterAccount(ctx context.Context, direction domain.Direction) (*domain.Account, error) {
	prefix := c.policy.CounterPrefix(direction)

	accounts, err := c.chart.LookupByCodePrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no postable counter account under %s", domain.ErrUnclassifiable, prefix)
	}

	return accounts[0], nil
}

// resolveApplied returns nil when no source yields an account. Candidates
// equal to the counter account are skipped.
func (c *Classifier) resolveApplied(ctx context.Context, m domain.Movement, counterID string) (*domain.Classification, error) {
	term := domain.NormalizeTerm(m.Description)

	if term != "" {
		rule, err := c.learning.BestMatch(ctx, term)
		if err != nil {
			return nil, err
		}
		if rule != nil && rule.AccountID != counterID {
			ok, err := c.postable(ctx, rule.AccountID)
			if err != nil {
				return nil, err
			}
			if ok {
				return &domain.Classification{
					AppliedAccountID: rule.AccountID,
					Source:           domain.MatchSourceLearned,
					MatchedTerm:      term,
					Confidence:       domain.LearnedConfidence(rule.Confidence),
					Rationale:        fmt.Sprintf("learned from %d approval(s) of %q", rule.Confidence, term),
				}, nil
			}
		}
	}

	for _, token := range domain.KeywordTokens(m.Description) {
		account, err := c.chart.LookupByKeyword(ctx, token)
		if err != nil {
			return nil, err
		}
		if account == nil || account.ID == counterID {
			continue
		}
		return &domain.Classification{
			AppliedAccountID: account.ID,
			Source:           domain.MatchSourceKeyword,
			MatchedTerm:      token,
			Confidence:       domain.KeywordConfidence,
			Rationale:        fmt.Sprintf("keyword %q matched account %s", token, account.Code),
		}, nil
	}

	fallback := strings.TrimSpace(m.FallbackAccountID)
	if fallback != "" && fallback != counterID {
		ok, err := c.postable(ctx, fallback)
		if err != nil {
			return nil, err
		}
		if ok {
			return &domain.Classification{
				AppliedAccountID: fallback,
				Source:           domain.MatchSourceFallback,
				Confidence:       domain.FallbackConfidence,
				Rationale:        "fallback account",
			}, nil
		}
	}

	return nil, nil
}

func (c *Classifier) postable(ctx context.Context, id string) (bool, error) {
	account, err := c.chart.GetAccount(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return account.CanReceivePostings(), nil
}
