package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
)

// LedgerUseCase is the append-only store of journal entries.
type LedgerUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and m may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// Post validates and stores a single entry.
func (uc *LedgerUseCase) Post(ctx context.Context, draft domain.EntryDraft) (*domain.JournalEntry, error) {
	entries, err := uc.PostBatch(ctx, []domain.EntryDraft{draft})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// PostBatch stores all drafts in one transaction. Either every entry is
// stored or none is.
func (uc *LedgerUseCase) PostBatch(ctx context.Context, drafts []domain.EntryDraft) ([]*domain.JournalEntry, error) {
	if err := validateDrafts(drafts); err != nil {
		uc.recordError(err)
		return nil, err
	}

	start := time.Now()

	var entries []*domain.JournalEntry
	err := withTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		var err error
		entries, err = uc.PostTx(ctx, tx, drafts)
		return err
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		for _, e := range entries {
			uc.metrics.EntriesPosted.WithLabelValues(string(e.Status)).Inc()
			uc.metrics.PostedAmount.Observe(e.Amount.InexactFloat64())
		}
	}

	return entries, nil
}

// PostTx stores drafts inside a caller-owned transaction. Drafts are
// validated again so callers cannot skip the checks.
func (uc *LedgerUseCase) PostTx(ctx context.Context, tx Transaction, drafts []domain.EntryDraft) ([]*domain.JournalEntry, error) {
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}

	if err := uc.checkLegs(ctx, drafts); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]*domain.JournalEntry, 0, len(drafts))

	for _, d := range drafts {
		status := d.Status
		if status == "" {
			status = domain.EntryStatusManual
		}

		entry := &domain.JournalEntry{
			ID:              uc.idGen.Generate(),
			Date:            domain.TruncateDate(d.Date),
			Memo:            d.Memo,
			Amount:          d.Amount,
			DebitAccountID:  d.DebitAccountID,
			CreditAccountID: d.CreditAccountID,
			CostCenterID:    d.CostCenterID,
			Origin:          d.Origin,
			Status:          status,
			Confidence:      d.Confidence,
			Suggestion:      d.Suggestion,
			CreatedBy:       d.CreatedBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}

		if err := uc.emit(ctx, tx, entry, domain.EventTypeEntryPosted, now); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Get retrieves an entry by ID.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// Query returns entries in the filter's inclusive date range that touch the
// filter's account on either leg, ordered by date then insertion order.
func (uc *LedgerUseCase) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from date is after to date", domain.ErrInvalidEntry)
	}
	return uc.entryRepo.Query(ctx, filter)
}

// UpdateStatus moves an entry to status. Non-nil legs overwrite the entry's
// account legs for any transition. Approving with nil legs applies the stored
// suggestion; moving to suggested with legs records them as the suggestion.
func (uc *LedgerUseCase) UpdateStatus(ctx context.Context, id string, status domain.EntryStatus, legs *domain.Legs) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := withTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		var err error
		entry, err = uc.UpdateStatusTx(ctx, tx, id, status, legs)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntryTransitions.WithLabelValues(string(status)).Inc()
	}

	return entry, nil
}

// UpdateStatusTx is UpdateStatus inside a caller-owned transaction.
func (uc *LedgerUseCase) UpdateStatusTx(ctx context.Context, tx Transaction, id string, status domain.EntryStatus, legs *domain.Legs) (*domain.JournalEntry, error) {
	entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.CanTransition(status); err != nil {
		return nil, err
	}

	if status == domain.EntryStatusSuggested && legs == nil && entry.Suggestion == nil {
		return nil, fmt.Errorf("%w: moving to suggested needs proposed legs", domain.ErrInvalidTransition)
	}

	applied := legs
	if applied == nil && status == domain.EntryStatusApproved {
		suggested := entry.Suggestion.Legs()
		applied = &suggested
	}

	if applied != nil {
		if err := uc.checkLegPair(ctx, *applied); err != nil {
			return nil, err
		}
		entry.DebitAccountID = applied.DebitAccountID
		entry.CreditAccountID = applied.CreditAccountID
	}

	if status == domain.EntryStatusSuggested && legs != nil {
		entry.Suggestion = operatorSuggestion(entry.Suggestion, *legs)
	}

	now := time.Now().UTC()
	entry.Status = status
	entry.UpdatedAt = now

	if err := uc.entryRepo.UpdateStatus(ctx, tx, entry); err != nil {
		return nil, err
	}

	switch status {
	case domain.EntryStatusApproved:
		err = uc.emit(ctx, tx, entry, domain.EventTypeEntryApproved, now)
	case domain.EntryStatusNeedsReview:
		err = uc.emit(ctx, tx, entry, domain.EventTypeEntryReviewRequested, now)
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CheckConsistency reports stored entries that violate the posting invariants.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	report, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerViolations.Set(float64(report.Violations()))
	}

	return report, nil
}

func (uc *LedgerUseCase) checkLegs(ctx context.Context, drafts []domain.EntryDraft) error {
	ids := collectUniqueAccountIDs(drafts)

	accounts, err := uc.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for _, id := range ids {
		if err := checkPostable(byID[id], id); err != nil {
			return err
		}
	}

	return nil
}

func (uc *LedgerUseCase) checkLegPair(ctx context.Context, legs domain.Legs) error {
	if legs.DebitAccountID == "" || legs.CreditAccountID == "" {
		return fmt.Errorf("%w: both debit and credit accounts are required", domain.ErrInvalidEntry)
	}
	if legs.DebitAccountID == legs.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts must differ", domain.ErrInvalidEntry)
	}

	return uc.checkLegs(ctx, []domain.EntryDraft{{
		DebitAccountID:  legs.DebitAccountID,
		CreditAccountID: legs.CreditAccountID,
	}})
}

// operatorSuggestion turns legs proposed by an operator into a suggestion,
// keeping the previous applied account when it is still one of the legs.
func operatorSuggestion(prev *domain.Suggestion, legs domain.Legs) *domain.Suggestion {
	applied := legs.DebitAccountID
	if prev != nil && (prev.AppliedAccountID == legs.DebitAccountID || prev.AppliedAccountID == legs.CreditAccountID) {
		applied = prev.AppliedAccountID
	}
	return &domain.Suggestion{
		DebitAccountID:   legs.DebitAccountID,
		CreditAccountID:  legs.CreditAccountID,
		AppliedAccountID: applied,
		Rationale:        OperatorSuggestionRationale,
	}
}

func (uc *LedgerUseCase) emit(ctx context.Context, tx Transaction, entry *domain.JournalEntry, eventType string, now time.Time) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     eventType,
		Payload:       domain.EntryEventPayload(entry),
		CreatedAt:     now,
	})
}

func (uc *LedgerUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PostingErrors.WithLabelValues(errorType(err)).Inc()
}

func validateDrafts(drafts []domain.EntryDraft) error {
	if len(drafts) == 0 {
		return fmt.Errorf("%w: no entries to post", domain.ErrInvalidEntry)
	}
	if len(drafts) > MaxBatchSize {
		return fmt.Errorf("%w: batch exceeds %d entries", domain.ErrInvalidEntry, MaxBatchSize)
	}
	for i := range drafts {
		if err := drafts[i].Validate(); err != nil {
			if len(drafts) > 1 {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			return err
		}
	}
	return nil
}

func checkPostable(account *domain.Account, id string) error {
	if account == nil {
		return fmt.Errorf("%w: account %s does not exist", domain.ErrInvalidEntry, id)
	}
	if !account.Postable {
		return fmt.Errorf("%w: account %s is a grouping account", domain.ErrInvalidEntry, account.Code)
	}
	if !account.Active {
		return fmt.Errorf("%w: account %s is inactive", domain.ErrInvalidEntry, account.Code)
	}
	return nil
}

func collectUniqueAccountIDs(drafts []domain.EntryDraft) []string {
	seen := make(map[string]bool)

	var ids []string
	for i := range drafts {
		for _, id := range drafts[i].AccountIDs() {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnclassifiable):
		return "unclassifiable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInvalidEntry):
		return "invalid_entry"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "internal"
	}
}
