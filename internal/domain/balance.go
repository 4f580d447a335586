package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeBalances nets debit and credit movement per account: a debit adds the
// amount to the account's signed balance, a credit subtracts it. Only accounts
// that appear on at least one leg are present in the result.
func ComputeBalances(entries []*JournalEntry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		balances[e.DebitAccountID] = balances[e.DebitAccountID].Add(e.Amount)
		balances[e.CreditAccountID] = balances[e.CreditAccountID].Sub(e.Amount)
	}
	return balances
}

// BalanceRow is one line of a balancete.
type BalanceRow struct {
	Account *Account
	Balance decimal.Decimal
}

// BuildBalanceRows joins balances with their chart accounts and orders the
// rows by account code. Balances for accounts missing from the chart are
// reported with ErrAccountNotFound.
func BuildBalanceRows(balances map[string]decimal.Decimal, accounts map[string]*Account) ([]BalanceRow, error) {
	rows := make([]BalanceRow, 0, len(balances))
	for id, balance := range balances {
		acc, ok := accounts[id]
		if !ok {
			return nil, ErrAccountNotFound
		}
		rows = append(rows, BalanceRow{Account: acc, Balance: balance})
	}

	slices.SortFunc(rows, func(a, b BalanceRow) int {
		if c := strings.Compare(a.Account.Code, b.Account.Code); c != 0 {
			return c
		}
		return strings.Compare(a.Account.ID, b.Account.ID)
	})

	return rows, nil
}

// TotalBalance sums the balances of all rows. For a closed set of entries it is zero.
func TotalBalance(rows []BalanceRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Balance)
	}
	return total
}
