package usecase

import (
	"context"
	"time"

	"github.com/iho/contabil/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	// List returns all accounts whose code starts with prefix, ordered by code.
	List(ctx context.Context, prefix string) ([]*domain.Account, error)
	// ListPostableByPrefix returns active postable accounts under prefix, ordered by code.
	ListPostableByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error)
	// FindPostableByKeyword returns the first active postable account carrying
	// keyword, or (nil, nil).
	FindPostableByKeyword(ctx context.Context, keyword string) (*domain.Account, error)
	Upsert(ctx context.Context, tx Transaction, account *domain.Account) error
}

// ChartCacheInvalidator drops cached chart lookups after the chart changes.
type ChartCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// EntryRepository defines data access for journal entries.
type EntryRepository interface {
	// Create stores the entry and assigns its insertion sequence.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	// UpdateStatus persists status, legs, confidence and suggestion of entry.
	UpdateStatus(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// Query returns matching entries ordered by date, then insertion sequence.
	Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// RuleRepository defines data access for learned classification rules.
type RuleRepository interface {
	// Reinforce inserts the (term, account) rule with confidence 1 or
	// increments the existing one, atomically.
	Reinforce(ctx context.Context, tx Transaction, term, accountID string, now time.Time) (*domain.ClassificationRule, error)
	// BestMatch returns the best ranked rule for term, or (nil, nil).
	BestMatch(ctx context.Context, term string) (*domain.ClassificationRule, error)
	ListByTerm(ctx context.Context, term string) ([]*domain.ClassificationRule, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// ChartOfAccounts is the read-only chart view used by the classifier.
type ChartOfAccounts interface {
	LookupByCodePrefix(ctx context.Context, prefix string) ([]*domain.Account, error)
	// LookupByKeyword returns (nil, nil) when no account carries term.
	LookupByKeyword(ctx context.Context, term string) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}

// LearningStore is the read side of the learned rules used by the classifier.
type LearningStore interface {
	BestMatch(ctx context.Context, term string) (*domain.ClassificationRule, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed, so it can be retried.
	Release(ctx context.Context, key string) error
}
