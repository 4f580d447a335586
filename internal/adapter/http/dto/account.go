package dto

import (
	"time"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// AccountResponse represents a chart account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Nature        string    `json:"nature"`
	Postable      bool      `json:"postable"`
	Active        bool      `json:"active"`
	ParentID      *string   `json:"parent_id,omitempty"`
	Keywords      []string  `json:"keywords"`
	RequiresAudit bool      `json:"requires_audit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	keywords := a.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &AccountResponse{
		ID:            a.ID,
		Code:          a.Code,
		Description:   a.Description,
		Type:          string(a.Type),
		Nature:        string(a.Nature),
		Postable:      a.Postable,
		Active:        a.Active,
		ParentID:      a.ParentID,
		Keywords:      keywords,
		RequiresAudit: a.RequiresAudit,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse is the chart listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// AccountRequest is one chart node in an import. It is also the record
// format of chart files, hence the yaml tags. Postable and Active default to true.
type AccountRequest struct {
	Code          string   `json:"code"                     yaml:"code"`
	Description   string   `json:"description"              yaml:"description"`
	Type          string   `json:"type"                     yaml:"type"`
	Nature        string   `json:"nature"                   yaml:"nature"`
	Postable      *bool    `json:"postable,omitempty"       yaml:"postable,omitempty"`
	Active        *bool    `json:"active,omitempty"         yaml:"active,omitempty"`
	ParentCode    string   `json:"parent_code,omitempty"    yaml:"parent_code,omitempty"`
	Keywords      []string `json:"keywords,omitempty"       yaml:"keywords,omitempty"`
	RequiresAudit bool     `json:"requires_audit,omitempty" yaml:"requires_audit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r AccountRequest) ToUseCaseInput() usecase.AccountInput {
	return usecase.AccountInput{
		Code:          r.Code,
		Description:   r.Description,
		Type:          domain.AccountType(r.Type),
		Nature:        domain.AccountNature(r.Nature),
		Postable:      boolOr(r.Postable, true),
		Active:        boolOr(r.Active, true),
		ParentCode:    r.ParentCode,
		Keywords:      r.Keywords,
		RequiresAudit: r.RequiresAudit,
	}
}

// ImportAccountsRequest upserts a set of chart nodes by code.
type ImportAccountsRequest struct {
	Accounts []AccountRequest `json:"accounts" yaml:"accounts"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportAccountsRequest) ToUseCaseInput() []usecase.AccountInput {
	inputs := make([]usecase.AccountInput, len(r.Accounts))
	for i, a := range r.Accounts {
		inputs[i] = a.ToUseCaseInput()
	}
	return inputs
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
