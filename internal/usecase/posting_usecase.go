package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
)

// PostingUseCase turns business movements into journal entries and runs the
// operator review workflow.
type PostingUseCase struct {
	txManager  TransactionManager
	retrier    Retrier
	classifier *Classifier
	ledger     *LedgerUseCase
	learning   *LearningUseCase
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase. retrier and m may be nil.
func NewPostingUseCase(
	txManager TransactionManager,
	retrier Retrier,
	classifier *Classifier,
	ledger *LedgerUseCase,
	learning *LearningUseCase,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:  txManager,
		retrier:    retrier,
		classifier: classifier,
		ledger:     ledger,
		learning:   learning,
		logger:     logger.With().Str("component", "posting").Logger(),
		metrics:    m,
	}
}

// ClassifyAndPostInput represents a settled movement to classify and post.
type ClassifyAndPostInput struct {
	Direction         domain.Direction
	Description       string
	Amount            decimal.Decimal
	FallbackAccountID string
	Date              time.Time
	CostCenterID      *string
	Origin            *domain.Origin
	CreatedBy         string
}

// Movement returns the classifier's view of the input.
func (in ClassifyAndPostInput) Movement() domain.Movement {
	return domain.Movement{
		Direction:         in.Direction,
		Description:       in.Description,
		Amount:            in.Amount,
		FallbackAccountID: in.FallbackAccountID,
	}
}

// PostedMovement is the outcome of a classified posting.
type PostedMovement struct {
	Entry          *domain.JournalEntry
	Classification *domain.Classification
}

// Preview is a dry-run classification with the status the entry would get.
type Preview struct {
	Classification *domain.Classification
	Status         domain.EntryStatus
}

// Classify runs the classifier without posting.
func (uc *PostingUseCase) Classify(ctx context.Context, m domain.Movement) (*Preview, error) {
	if err := domain.ValidateAmount(m.Amount); err != nil {
		return nil, err
	}

	c, err := uc.classify(ctx, m)
	if err != nil {
		return nil, err
	}

	status := domain.EntryStatusManual
	if uc.classifier.Policy().NeedsReview(m.Amount) {
		status = domain.EntryStatusSuggested
	}

	return &Preview{Classification: c, Status: status}, nil
}

// ClassifyAndPost classifies one movement and posts the resulting entry.
// An unclassifiable movement posts nothing.
func (uc *PostingUseCase) ClassifyAndPost(ctx context.Context, input ClassifyAndPostInput) (*PostedMovement, error) {
	posted, err := uc.ClassifyAndPostBatch(ctx, []ClassifyAndPostInput{input})
	if err != nil {
		return nil, err
	}
	return posted[0], nil
}

// ClassifyAndPostBatch classifies every movement first and then posts all
// entries in one transaction. Any failure leaves nothing persisted.
func (uc *PostingUseCase) ClassifyAndPostBatch(ctx context.Context, inputs []ClassifyAndPostInput) ([]*PostedMovement, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no movements to post", domain.ErrInvalidEntry)
	}
	if len(inputs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch exceeds %d movements", domain.ErrInvalidEntry, MaxBatchSize)
	}

	classifications := make([]*domain.Classification, len(inputs))
	drafts := make([]domain.EntryDraft, len(inputs))

	for i, in := range inputs {
		if err := domain.ValidateAmount(in.Amount); err != nil {
			return nil, batchError(len(inputs), i, err)
		}

		c, err := uc.classify(ctx, in.Movement())
		if err != nil {
			return nil, batchError(len(inputs), i, err)
		}

		classifications[i] = c
		drafts[i] = uc.draft(in, c)
	}

	entries, err := uc.ledger.PostBatch(ctx, drafts)
	if err != nil {
		return nil, err
	}

	posted := make([]*PostedMovement, len(entries))
	for i, e := range entries {
		posted[i] = &PostedMovement{Entry: e, Classification: classifications[i]}
	}

	uc.logger.Info().
		Int("movements", len(posted)).
		Msg("movements classified and posted")

	return posted, nil
}

// Approve applies the entry's pending suggestion and teaches the learning
// store that the memo belongs to the suggested account.
func (uc *PostingUseCase) Approve(ctx context.Context, entryID string, legs *domain.Legs) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry

	err := withTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		var err error
		entry, err = uc.ledger.UpdateStatusTx(ctx, tx, entryID, domain.EntryStatusApproved, legs)
		if err != nil {
			return err
		}

		_, err = uc.learning.Reinforce(ctx, tx, entry.Memo, appliedAccount(entry, legs))
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntryTransitions.WithLabelValues(string(domain.EntryStatusApproved)).Inc()
	}

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("debit_account_id", entry.DebitAccountID).
		Str("credit_account_id", entry.CreditAccountID).
		Msg("entry approved")

	return entry, nil
}

// MarkForReview flags an entry for operator review. Nothing is learned.
func (uc *PostingUseCase) MarkForReview(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return uc.ledger.UpdateStatus(ctx, entryID, domain.EntryStatusNeedsReview, nil)
}

func (uc *PostingUseCase) classify(ctx context.Context, m domain.Movement) (*domain.Classification, error) {
	c, err := uc.classifier.Classify(ctx, m)
	if uc.metrics != nil {
		if err != nil {
			uc.metrics.ClassificationFailures.Inc()
		} else {
			uc.metrics.Classifications.WithLabelValues(string(c.Source)).Inc()
		}
	}
	return c, err
}

func (uc *PostingUseCase) draft(in ClassifyAndPostInput, c *domain.Classification) domain.EntryDraft {
	d := domain.EntryDraft{
		Date:            in.Date,
		Memo:            strings.TrimSpace(in.Description),
		Amount:          in.Amount,
		DebitAccountID:  c.DebitAccountID,
		CreditAccountID: c.CreditAccountID,
		CostCenterID:    in.CostCenterID,
		Origin:          in.Origin,
		Status:          domain.EntryStatusManual,
		CreatedBy:       in.CreatedBy,
	}
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}

	policy := uc.classifier.Policy()
	if policy.NeedsReview(in.Amount) {
		confidence := policy.SuggestionConfidence
		d.Status = domain.EntryStatusSuggested
		d.Confidence = &confidence
		d.Suggestion = &domain.Suggestion{
			DebitAccountID:   c.DebitAccountID,
			CreditAccountID:  c.CreditAccountID,
			AppliedAccountID: c.AppliedAccountID,
			Rationale:        ReviewRationale,
		}
	}

	return d
}

// appliedAccount picks the leg the operator confirmed for the memo. With
// overridden legs it is the leg that replaced the suggested applied account.
func appliedAccount(entry *domain.JournalEntry, legs *domain.Legs) string {
	s := entry.Suggestion
	if legs == nil {
		return s.AppliedAccountID
	}
	if s.AppliedAccountID == s.CreditAccountID {
		return legs.CreditAccountID
	}
	return legs.DebitAccountID
}

func batchError(size, index int, err error) error {
	if size == 1 {
		return err
	}
	return fmt.Errorf("movement %d: %w", index, err)
}
