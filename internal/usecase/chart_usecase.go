package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
)

// ChartUseCase serves the chart of accounts. It is read-only to the posting
// core; Import is the configuration surface that writes it.
type ChartUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	cache       ChartCacheInvalidator
	metrics     *metrics.Metrics
}

// NewChartUseCase creates a new ChartUseCase. cache and m may be nil.
func NewChartUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	idGen IDGenerator,
	cache ChartCacheInvalidator,
	m *metrics.Metrics,
) *ChartUseCase {
	return &ChartUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		cache:       cache,
		metrics:     m,
	}
}

// LookupByCodePrefix returns active postable accounts under prefix, ordered by code.
func (uc *ChartUseCase) LookupByCodePrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	return uc.accountRepo.ListPostableByPrefix(ctx, prefix)
}

// LookupByKeyword returns the first active postable account whose keywords
// contain term, or (nil, nil) when none does.
func (uc *ChartUseCase) LookupByKeyword(ctx context.Context, term string) (*domain.Account, error) {
	term = domain.NormalizeKeyword(term)
	if term == "" {
		return nil, nil
	}
	return uc.accountRepo.FindPostableByKeyword(ctx, term)
}

// GetAccount retrieves an account by ID.
func (uc *ChartUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts whose code starts with prefix, ordered by code.
func (uc *ChartUseCase) ListAccounts(ctx context.Context, prefix string) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, strings.TrimSpace(prefix))
}

// AccountInput represents one chart node to create or update.
type AccountInput struct {
	Code          string
	Description   string
	Type          domain.AccountType
	Nature        domain.AccountNature
	Postable      bool
	Active        bool
	ParentCode    string
	Keywords      []string
	RequiresAudit bool
}

// Import upserts chart nodes by code in a single transaction. Parents must
// exist already or be part of the same import.
func (uc *ChartUseCase) Import(ctx context.Context, inputs []AccountInput) ([]*domain.Account, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no accounts to import", domain.ErrInvalidAccountInput)
	}

	// Parents sort before their children.
	sorted := slices.Clone(inputs)
	slices.SortStableFunc(sorted, func(a, b AccountInput) int {
		return strings.Compare(strings.TrimSpace(a.Code), strings.TrimSpace(b.Code))
	})

	now := time.Now().UTC()
	byCode := make(map[string]*domain.Account, len(sorted))
	accounts := make([]*domain.Account, 0, len(sorted))

	for _, in := range sorted {
		account := &domain.Account{
			Code:          strings.TrimSpace(in.Code),
			Description:   strings.TrimSpace(in.Description),
			Type:          in.Type,
			Nature:        in.Nature,
			Postable:      in.Postable,
			Active:        in.Active,
			Keywords:      domain.NormalizeKeywords(in.Keywords),
			RequiresAudit: in.RequiresAudit,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := domain.ValidateAccount(account); err != nil {
			return nil, err
		}

		if _, dup := byCode[account.Code]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAccountCode, account.Code)
		}

		existing, err := uc.accountRepo.GetByCode(ctx, account.Code)
		switch {
		case err == nil:
			account.ID = existing.ID
			account.CreatedAt = existing.CreatedAt
		case domain.IsNotFound(err):
			account.ID = uc.idGen.Generate()
		default:
			return nil, err
		}

		if parentCode := strings.TrimSpace(in.ParentCode); parentCode != "" {
			parentID, err := uc.resolveParent(ctx, byCode, account.Code, parentCode)
			if err != nil {
				return nil, err
			}
			account.ParentID = &parentID
		}

		byCode[account.Code] = account
		accounts = append(accounts, account)
	}

	err := withTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		for _, a := range accounts {
			if err := uc.accountRepo.Upsert(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate chart cache")
		}
	}

	if uc.metrics != nil {
		uc.metrics.ChartImports.Inc()
	}

	return accounts, nil
}

func (uc *ChartUseCase) resolveParent(ctx context.Context, batch map[string]*domain.Account, code, parentCode string) (string, error) {
	if !strings.HasPrefix(code, parentCode+".") {
		return "", fmt.Errorf("%w: %s is not under parent %s", domain.ErrInvalidAccountCode, code, parentCode)
	}

	if parent, ok := batch[parentCode]; ok {
		if parent.Postable {
			return "", fmt.Errorf("%w: parent %s is a postable account", domain.ErrInvalidAccountInput, parentCode)
		}
		return parent.ID, nil
	}

	parent, err := uc.accountRepo.GetByCode(ctx, parentCode)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrParentNotFound, parentCode)
		}
		return "", err
	}
	if parent.Postable {
		return "", fmt.Errorf("%w: parent %s is a postable account", domain.ErrInvalidAccountInput, parentCode)
	}

	return parent.ID, nil
}
