package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/postgres/generated"
	"github.com/iho/contabil/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create inserts the entry and stores the sequence the database assigned.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	suggestion, err := marshalSuggestion(entry.Suggestion)
	if err != nil {
		return err
	}

	var originType, originID pgtype.Text
	if entry.Origin != nil {
		originType = stringToPgText(entry.Origin.Type)
		originID = stringToPgText(entry.Origin.ID)
	}

	seq, err := queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:              entry.ID,
		EntryDate:       timeToPgDate(entry.Date),
		Memo:            entry.Memo,
		Amount:          decimalToNumeric(entry.Amount),
		DebitAccountID:  entry.DebitAccountID,
		CreditAccountID: entry.CreditAccountID,
		CostCenterID:    ptrToPgText(entry.CostCenterID),
		OriginType:      originType,
		OriginID:        originID,
		Status:          string(entry.Status),
		Confidence:      intPtrToPgInt4(entry.Confidence),
		Suggestion:      suggestion,
		CreatedBy:       entry.CreatedBy,
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}

	entry.Seq = seq
	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row)
}

// GetByIDForUpdate retrieves an entry and locks its row until tx ends.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetJournalEntryByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row)
}

// UpdateStatus persists the mutable part of an entry.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	suggestion, err := marshalSuggestion(entry.Suggestion)
	if err != nil {
		return err
	}

	return queries.UpdateJournalEntryStatus(ctx, generated.UpdateJournalEntryStatusParams{
		ID:              entry.ID,
		Status:          string(entry.Status),
		DebitAccountID:  entry.DebitAccountID,
		CreditAccountID: entry.CreditAccountID,
		Confidence:      intPtrToPgInt4(entry.Confidence),
		Suggestion:      suggestion,
		UpdatedAt:       timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// Query returns the entries matching filter, ordered by date then sequence.
func (r *EntryRepository) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.QueryJournalEntries(ctx, generated.QueryJournalEntriesParams{
		FromDate:  optionalDate(filter.From),
		ToDate:    optionalDate(filter.To),
		AccountID: stringToPgText(filter.AccountID),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		e, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func marshalSuggestion(s *domain.Suggestion) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding suggestion: %w", err)
	}
	return b, nil
}

func rowToEntry(row generated.JournalEntry) (*domain.JournalEntry, error) {
	e := &domain.JournalEntry{
		ID:              row.ID,
		Seq:             row.Seq,
		Date:            row.EntryDate.Time,
		Memo:            row.Memo,
		Amount:          numericToDecimal(row.Amount),
		DebitAccountID:  row.DebitAccountID,
		CreditAccountID: row.CreditAccountID,
		CostCenterID:    pgTextToPtr(row.CostCenterID),
		Status:          domain.EntryStatus(row.Status),
		Confidence:      pgInt4ToIntPtr(row.Confidence),
		CreatedBy:       row.CreatedBy,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}

	if row.OriginType.Valid {
		e.Origin = &domain.Origin{Type: row.OriginType.String, ID: row.OriginID.String}
	}

	if len(row.Suggestion) > 0 {
		var s domain.Suggestion
		if err := json.Unmarshal(row.Suggestion, &s); err != nil {
			return nil, fmt.Errorf("decoding suggestion of entry %s: %w", row.ID, err)
		}
		e.Suggestion = &s
	}

	return e, nil
}
