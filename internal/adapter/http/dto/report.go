package dto

import (
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// BalanceRowResponse is one balancete line.
type BalanceRowResponse struct {
	AccountID   string `json:"account_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Balance     string `json:"balance"`
}

// BalanceteResponse is a trial balance.
type BalanceteResponse struct {
	From  *Date                `json:"from,omitempty"`
	To    *Date                `json:"to,omitempty"`
	Rows  []BalanceRowResponse `json:"rows"`
	Total string               `json:"total"`
}

// BalanceteFromUseCase converts a use case balancete to response.
func BalanceteFromUseCase(b *usecase.Balancete) *BalanceteResponse {
	rows := make([]BalanceRowResponse, len(b.Rows))
	for i, r := range b.Rows {
		rows[i] = BalanceRowResponse{
			AccountID:   r.Account.ID,
			Code:        r.Account.Code,
			Description: r.Account.Description,
			Type:        string(r.Account.Type),
			Balance:     r.Balance.StringFixed(domain.CurrencyPlaces),
		}
	}
	return &BalanceteResponse{
		From:  DatePtr(b.From),
		To:    DatePtr(b.To),
		Rows:  rows,
		Total: b.Total.StringFixed(domain.CurrencyPlaces),
	}
}

// ExportRowResponse is a flat entry for spreadsheets.
type ExportRowResponse struct {
	EntryID           string `json:"entry_id"`
	Date              Date   `json:"date"`
	Memo              string `json:"memo"`
	DebitCode         string `json:"debit_code"`
	DebitDescription  string `json:"debit_description"`
	CreditCode        string `json:"credit_code"`
	CreditDescription string `json:"credit_description"`
	Amount            string `json:"amount"`
	Status            string `json:"status"`
}

// ExportHeader is the column order of CSV exports.
var ExportHeader = []string{
	"entry_id", "date", "memo",
	"debit_code", "debit_description",
	"credit_code", "credit_description",
	"amount", "status",
}

// Record returns the row in ExportHeader order.
func (r ExportRowResponse) Record() []string {
	return []string{
		r.EntryID, r.Date.String(), r.Memo,
		r.DebitCode, r.DebitDescription,
		r.CreditCode, r.CreditDescription,
		r.Amount, r.Status,
	}
}

// ExportRowsFromUseCase converts use case export rows to responses.
func ExportRowsFromUseCase(rows []usecase.ExportRow) []ExportRowResponse {
	result := make([]ExportRowResponse, len(rows))
	for i, r := range rows {
		result[i] = ExportRowResponse{
			EntryID:           r.EntryID,
			Date:              NewDate(r.Date),
			Memo:              r.Memo,
			DebitCode:         r.DebitCode,
			DebitDescription:  r.DebitDescription,
			CreditCode:        r.CreditCode,
			CreditDescription: r.CreditDescription,
			Amount:            r.Amount.StringFixed(domain.CurrencyPlaces),
			Status:            string(r.Status),
		}
	}
	return result
}
