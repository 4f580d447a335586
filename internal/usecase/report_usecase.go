package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
)

// ReportUseCase builds read-only reports over the ledger.
type ReportUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *ReportUseCase {
	return &ReportUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// BalanceteInput selects the entries of a trial balance.
type BalanceteInput struct {
	From      *time.Time
	To        *time.Time
	AccountID string
}

// Balancete is a trial balance: one row per touched account, ordered by code.
type Balancete struct {
	From  *time.Time
	To    *time.Time
	Rows  []domain.BalanceRow
	Total decimal.Decimal
}

// ComputeBalancete nets the debit and credit movement of every account
// touched by the selected entries.
func (uc *ReportUseCase) ComputeBalancete(ctx context.Context, input BalanceteInput) (*Balancete, error) {
	entries, err := uc.query(ctx, domain.EntryFilter{From: input.From, To: input.To, AccountID: input.AccountID})
	if err != nil {
		return nil, err
	}

	balances := domain.ComputeBalances(entries)

	accounts, err := uc.accountsByID(ctx, balanceAccountIDs(balances))
	if err != nil {
		return nil, err
	}

	rows, err := domain.BuildBalanceRows(balances, accounts)
	if err != nil {
		return nil, err
	}

	return &Balancete{
		From:  input.From,
		To:    input.To,
		Rows:  rows,
		Total: domain.TotalBalance(rows),
	}, nil
}

// ExportRow is a flat, denormalized entry for spreadsheets and accountants.
type ExportRow struct {
	EntryID           string
	Date              time.Time
	Memo              string
	DebitCode         string
	DebitDescription  string
	CreditCode        string
	CreditDescription string
	Amount            decimal.Decimal
	Status            domain.EntryStatus
}

// ExportEntries returns the selected entries with account codes and
// descriptions resolved, in ledger order.
func (uc *ReportUseCase) ExportEntries(ctx context.Context, filter domain.EntryFilter) ([]ExportRow, error) {
	entries, err := uc.query(ctx, filter)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		for _, id := range []string{e.DebitAccountID, e.CreditAccountID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	accounts, err := uc.accountsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(entries))
	for _, e := range entries {
		debit, credit := accounts[e.DebitAccountID], accounts[e.CreditAccountID]
		if debit == nil || credit == nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, domain.ErrAccountNotFound)
		}
		rows = append(rows, ExportRow{
			EntryID:           e.ID,
			Date:              e.Date,
			Memo:              e.Memo,
			DebitCode:         debit.Code,
			DebitDescription:  debit.Description,
			CreditCode:        credit.Code,
			CreditDescription: credit.Description,
			Amount:            e.Amount,
			Status:            e.Status,
		})
	}

	return rows, nil
}

func (uc *ReportUseCase) query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from date is after to date", domain.ErrInvalidEntry)
	}
	return uc.entryRepo.Query(ctx, filter)
}

func (uc *ReportUseCase) accountsByID(ctx context.Context, ids []string) (map[string]*domain.Account, error) {
	if len(ids) == 0 {
		return map[string]*domain.Account{}, nil
	}

	accounts, err := uc.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	m := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}
	return m, nil
}

func balanceAccountIDs(balances map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	return ids
}
