package dto

import (
	"time"

	"github.com/iho/contabil/internal/domain"
)

// RuleResponse represents a learned classification rule.
type RuleResponse struct {
	ID         int64     `json:"id"`
	Term       string    `json:"term"`
	AccountID  string    `json:"account_id"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.ClassificationRule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = &RuleResponse{
			ID:         r.ID,
			Term:       r.Term,
			AccountID:  r.AccountID,
			Confidence: r.Confidence,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return result
}

// ListRulesResponse is the rule listing for a term.
type ListRulesResponse struct {
	Rules []*RuleResponse `json:"rules"`
}

// ConsistencyResponse is the ledger health report.
type ConsistencyResponse struct {
	Consistent        bool  `json:"consistent"`
	TotalEntries      int64 `json:"total_entries"`
	Violations        int64 `json:"violations"`
	SelfEntries       int64 `json:"self_entries"`
	NonPositiveAmount int64 `json:"non_positive_amount"`
	InvalidLegs       int64 `json:"invalid_legs"`
	MissingSuggestion int64 `json:"missing_suggestion"`
}

// ConsistencyFromDomain converts a consistency report to response.
func ConsistencyFromDomain(r *domain.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:        r.Consistent(),
		TotalEntries:      r.TotalEntries,
		Violations:        r.Violations(),
		SelfEntries:       r.SelfEntries,
		NonPositiveAmount: r.NonPositiveAmount,
		InvalidLegs:       r.InvalidLegs,
		MissingSuggestion: r.MissingSuggestion,
	}
}
