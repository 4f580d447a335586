package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Direction tells whether a movement is money going out or coming in.
type Direction string

const (
	DirectionPayable    Direction = "payable"
	DirectionReceivable Direction = "receivable"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionPayable || d == DirectionReceivable
}

// Movement is an unclassified financial movement, usually a settled título.
type Movement struct {
	Direction         Direction
	Description       string
	Amount            decimal.Decimal
	FallbackAccountID string
}

// MatchSource records which rule resolved the applied account.
type MatchSource string

const (
	MatchSourceLearned  MatchSource = "learned"
	MatchSourceKeyword  MatchSource = "keyword"
	MatchSourceFallback MatchSource = "fallback"
)

// Per-source confidence for classifier proposals.
const (
	LearnedBaseConfidence = 50
	LearnedConfidenceStep = 10
	KeywordConfidence     = 40
	FallbackConfidence    = 20
	MaxConfidence         = 100
	MinKeywordTokenLength = 3
)

// LearnedConfidence maps a rule's reinforcement count to a 0-100 score.
func LearnedConfidence(ruleConfidence int) int {
	return min(MaxConfidence, LearnedBaseConfidence+LearnedConfidenceStep*ruleConfidence)
}

// Classification is the classifier's proposal for a movement.
type Classification struct {
	DebitAccountID   string
	CreditAccountID  string
	AppliedAccountID string
	CounterAccountID string
	Source           MatchSource
	MatchedTerm      string
	Confidence       int
	Rationale        string
}

// Legs returns the proposed debit/credit pair.
func (c *Classification) Legs() Legs {
	return Legs{DebitAccountID: c.DebitAccountID, CreditAccountID: c.CreditAccountID}
}

// AssignLegs places the applied and counter accounts on the side the direction
// expects: payables debit the applied account and credit the money source,
// receivables debit the counter account and credit the applied account.
func AssignLegs(direction Direction, applied, counter string) Legs {
	if direction == DirectionReceivable {
		return Legs{DebitAccountID: counter, CreditAccountID: applied}
	}
	return Legs{DebitAccountID: applied, CreditAccountID: counter}
}

// KeywordTokens splits a description on whitespace and keeps, in order, the
// lower-cased tokens with at least MinKeywordTokenLength characters.
func KeywordTokens(description string) []string {
	fields := strings.Fields(description)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinKeywordTokenLength {
			continue
		}
		tokens = append(tokens, NormalizeKeyword(f))
	}
	return tokens
}
