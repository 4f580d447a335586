package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase/mocks"
)

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx.(*Tx)
}

func errNoRows() error { return pgx.ErrNoRows }

func TestRuleRepositoryBestMatchNoRule(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("-- name: BestRuleForTerm").
		WithArgs("Aluguel sala 3").
		WillReturnError(errNoRows())

	rule, err := NewRuleRepository(pool).BestMatch(context.Background(), "Aluguel sala 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule != nil {
		t.Fatalf("expected no rule, got %+v", rule)
	}
	assertExpectations(t, pool)
}

func TestRuleRepositoryReinforceUsesTransaction(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	pool.ExpectQuery("-- name: ReinforceRule").
		WithArgs("Aluguel sala 3", "acc-rent", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "term", "account_id", "confidence", "created_at", "updated_at"}).
			AddRow(int64(7), "Aluguel sala 3", "acc-rent", int32(2), now.Add(-time.Hour), now))
	pool.ExpectCommit()

	rule, err := NewRuleRepository(pool).Reinforce(context.Background(), tx, "Aluguel sala 3", "acc-rent", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.ID != 7 || rule.Confidence != 2 || rule.AccountID != "acc-rent" {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if !rule.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at %v, got %v", now, rule.UpdatedAt)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("-- name: GetAccountByID").
		WithArgs("missing").
		WillReturnError(errNoRows())

	_, err := NewAccountRepository(pool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found error kind")
	}
	assertExpectations(t, pool)
}

func TestAccountRepositoryFindByKeywordNormalizes(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("-- name: FindPostableAccountByKeyword").
		WithArgs("energia").
		WillReturnError(errNoRows())

	acc, err := NewAccountRepository(pool).FindPostableByKeyword(context.Background(), "  ENERGIA ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc != nil {
		t.Fatalf("expected no account, got %+v", acc)
	}
	assertExpectations(t, pool)
}

func TestAccountRepositoryCodeOrderingIsBytewise(t *testing.T) {
	accountColumns := []string{"id", "code", "description", "type", "nature", "postable", "active", "parent_id", "keywords", "requires_audit", "created_at", "updated_at"}

	tests := []struct {
		name  string
		query string
		call  func(r *AccountRepository) error
	}{
		{
			name:  "postable by prefix",
			query: "ListPostableAccountsByPrefix",
			call: func(r *AccountRepository) error {
				_, err := r.ListPostableByPrefix(context.Background(), "1.1")
				return err
			},
		},
		{
			name:  "chart listing",
			query: "ListAccountsByPrefix",
			call: func(r *AccountRepository) error {
				_, err := r.List(context.Background(), "")
				return err
			},
		},
		{
			name:  "keyword lookup",
			query: "FindPostableAccountByKeyword",
			call: func(r *AccountRepository) error {
				_, err := r.FindPostableByKeyword(context.Background(), "aluguel")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			expect := pool.ExpectQuery(`(?s)-- name: ` + tt.query + `\b.*ORDER BY code COLLATE "C"`)
			if tt.query == "FindPostableAccountByKeyword" {
				expect.WillReturnError(errNoRows())
			} else {
				expect.WillReturnRows(pgxmock.NewRows(accountColumns))
			}

			if err := tt.call(NewAccountRepository(pool)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertExpectations(t, pool)
		})
	}
}

func TestAccountRepositoryGetByIDsEmpty(t *testing.T) {
	pool := newMockPool(t)

	accounts, err := NewAccountRepository(pool).GetByIDs(context.Background(), nil)
	if err != nil || len(accounts) != 0 {
		t.Fatalf("expected no accounts and no error, got %v, %v", accounts, err)
	}
	assertExpectations(t, pool)
}

func TestAccountRepositoryUpsert(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	args := make([]any, 12)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	pool.ExpectExec("-- name: UpsertAccount").
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	acc := &domain.Account{
		ID:          "acc-rent",
		Code:        "4.1.01.01",
		Description: "Aluguel",
		Type:        domain.AccountTypeExpense,
		Nature:      domain.AccountNatureFixed,
		Postable:    true,
		Active:      true,
	}
	if err := NewAccountRepository(pool).Upsert(context.Background(), tx, acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, pool)
}

func TestRepositoriesRejectForeignTransactions(t *testing.T) {
	pool := newMockPool(t)
	foreign := &mocks.MockTransaction{}

	if err := NewAccountRepository(pool).Upsert(context.Background(), foreign, &domain.Account{}); err == nil {
		t.Fatalf("expected account upsert to reject a non-postgres transaction")
	}
	if err := NewEntryRepository(pool).Create(context.Background(), foreign, &domain.JournalEntry{}); err == nil {
		t.Fatalf("expected entry create to reject a non-postgres transaction")
	}
	if _, err := NewRuleRepository(pool).Reinforce(context.Background(), foreign, "t", "a", time.Now()); err == nil {
		t.Fatalf("expected reinforce to reject a non-postgres transaction")
	}
	assertExpectations(t, pool)
}

func TestEntryRepositoryCreateAssignsSeq(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	args := make([]any, 15)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	pool.ExpectQuery("-- name: CreateJournalEntry").
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	entry := &domain.JournalEntry{
		ID:              "entry-1",
		Date:            time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Memo:            "Aluguel maio",
		Amount:          decimal.RequireFromString("1500.00"),
		DebitAccountID:  "acc-rent",
		CreditAccountID: "acc-bank",
		Status:          domain.EntryStatusSuggested,
		Suggestion: &domain.Suggestion{
			DebitAccountID:   "acc-rent",
			CreditAccountID:  "acc-bank",
			AppliedAccountID: "acc-rent",
			Rationale:        "large amount, recommend review",
		},
	}
	if err := NewEntryRepository(pool).Create(context.Background(), tx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Seq != 42 {
		t.Fatalf("expected seq 42, got %d", entry.Seq)
	}
	assertExpectations(t, pool)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("-- name: GetJournalEntryByID").
		WithArgs("missing").
		WillReturnError(errNoRows())

	_, err := NewEntryRepository(pool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	assertExpectations(t, pool)
}

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("-- name: CheckLedgerConsistency").
		WillReturnRows(pgxmock.NewRows([]string{
			"total_entries", "self_entries", "non_positive_amount", "invalid_legs", "missing_suggestion",
		}).AddRow(int64(10), int64(0), int64(0), int64(1), int64(0)))

	report, err := NewLedgerRepository(pool).CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalEntries != 10 || report.InvalidLegs != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Consistent() {
		t.Fatalf("expected report with an invalid leg to be inconsistent")
	}
	assertExpectations(t, pool)
}
