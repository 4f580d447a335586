package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/postgres/generated"
	"github.com/iho/contabil/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDs retrieves the accounts that exist among ids, ordered by code.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.queries.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// GetByCode retrieves an account by its chart code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// List returns every account under prefix, grouping nodes included.
func (r *AccountRepository) List(ctx context.Context, prefix string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListPostableByPrefix returns the active postable accounts under prefix.
func (r *AccountRepository) ListPostableByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	rows, err := r.queries.ListPostableAccountsByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// FindPostableByKeyword returns the lowest-coded active postable account
// carrying keyword, or (nil, nil).
func (r *AccountRepository) FindPostableByKeyword(ctx context.Context, keyword string) (*domain.Account, error) {
	row, err := r.queries.FindPostableAccountByKeyword(ctx, domain.NormalizeKeyword(keyword))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// Upsert inserts the account or updates the one with the same code.
func (r *AccountRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	keywords := account.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return queries.UpsertAccount(ctx, generated.UpsertAccountParams{
		ID:            account.ID,
		Code:          account.Code,
		Description:   account.Description,
		Type:          string(account.Type),
		Nature:        string(account.Nature),
		Postable:      account.Postable,
		Active:        account.Active,
		ParentID:      ptrToPgText(account.ParentID),
		Keywords:      keywords,
		RequiresAudit: account.RequiresAudit,
		CreatedAt:     timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
	})
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:            row.ID,
		Code:          row.Code,
		Description:   row.Description,
		Type:          domain.AccountType(row.Type),
		Nature:        domain.AccountNature(row.Nature),
		Postable:      row.Postable,
		Active:        row.Active,
		ParentID:      pgTextToPtr(row.ParentID),
		Keywords:      row.Keywords,
		RequiresAudit: row.RequiresAudit,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
