package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// AccountType is the accounting class of a chart node.
type AccountType string

const (
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeRevenue, AccountTypeExpense, AccountTypeAsset, AccountTypeLiability:
		return true
	}
	return false
}

// AccountNature distinguishes fixed from variable costs and revenues.
type AccountNature string

const (
	AccountNatureFixed    AccountNature = "fixed"
	AccountNatureVariable AccountNature = "variable"
)

// IsValid reports whether n is a known nature.
func (n AccountNature) IsValid() bool {
	return n == AccountNatureFixed || n == AccountNatureVariable
}

// Account is a node of the chart of accounts (plano de contas).
// Only postable (analytic) accounts may be referenced by journal entries;
// grouping nodes exist for hierarchy and reporting.
type Account struct {
	ID            string
	Code          string
	Description   string
	Type          AccountType
	Nature        AccountNature
	Postable      bool
	Active        bool
	ParentID      *string
	Keywords      []string
	RequiresAudit bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanReceivePostings reports whether entries may reference the account.
func (a *Account) CanReceivePostings() bool {
	return a.Postable && a.Active
}

// HasKeyword reports whether the account's keyword set contains term, case-insensitively.
func (a *Account) HasKeyword(term string) bool {
	return slices.Contains(a.Keywords, NormalizeKeyword(term))
}

// HasCodePrefix reports whether the account code starts with prefix.
func (a *Account) HasCodePrefix(prefix string) bool {
	return strings.HasPrefix(a.Code, prefix)
}

var accountCodeRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ValidateAccountCode checks the dotted numeric code format, e.g. "3.1.01.01".
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q is not a dotted numeric code", ErrInvalidAccountCode, code)
	}
	return nil
}

// NormalizeKeyword lower-cases and trims a keyword for storage and lookup.
func NormalizeKeyword(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// NormalizeKeywords normalizes, de-duplicates and drops empty keywords, keeping order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = NormalizeKeyword(k)
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// SortAccountsByCode orders accounts by code ascending.
func SortAccountsByCode(accounts []*Account) {
	slices.SortStableFunc(accounts, func(a, b *Account) int {
		return strings.Compare(a.Code, b.Code)
	})
}
