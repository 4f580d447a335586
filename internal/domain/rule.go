package domain

import (
	"slices"
	"strings"
	"time"
)

// ClassificationRule is a learned association between an exact movement
// description and an account. Confidence counts operator approvals.
type ClassificationRule struct {
	ID         int64
	Term       string
	AccountID  string
	Confidence int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeTerm prepares a description for exact-match learning.
func NormalizeTerm(description string) string {
	return strings.TrimSpace(description)
}

// RankRules orders rules best first: highest confidence, then most recently
// reinforced, then highest id.
func RankRules(rules []*ClassificationRule) {
	slices.SortStableFunc(rules, func(a, b *ClassificationRule) int {
		switch {
		case a.Outranks(b):
			return -1
		case b.Outranks(a):
			return 1
		}
		return 0
	})
}

// Outranks reports whether r should be preferred over other.
func (r *ClassificationRule) Outranks(other *ClassificationRule) bool {
	if r.Confidence != other.Confidence {
		return r.Confidence > other.Confidence
	}
	if !r.UpdatedAt.Equal(other.UpdatedAt) {
		return r.UpdatedAt.After(other.UpdatedAt)
	}
	return r.ID > other.ID
}
