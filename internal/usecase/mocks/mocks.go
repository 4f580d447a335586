package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// stage defers op until the mock transaction commits. Writes made outside a
// MockTransaction are applied immediately.
func stage(tx usecase.Transaction, op func()) {
	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		mt.mu.Lock()
		mt.ops = append(mt.ops, op)
		mt.mu.Unlock()
		return
	}
	op()
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByIDFunc   func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsFunc  func(ctx context.Context, ids []string) ([]*domain.Account, error)
	GetByCodeFunc func(ctx context.Context, code string) (*domain.Account, error)
	UpsertFunc    func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

// Add stores accounts directly, bypassing transactions.
func (m *MockAccountRepository) Add(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, prefix string) ([]*domain.Account, error) {
	return m.sorted(func(a *domain.Account) bool { return a.HasCodePrefix(prefix) }), nil
}

func (m *MockAccountRepository) ListPostableByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	return m.sorted(func(a *domain.Account) bool {
		return a.CanReceivePostings() && a.HasCodePrefix(prefix)
	}), nil
}

func (m *MockAccountRepository) FindPostableByKeyword(ctx context.Context, keyword string) (*domain.Account, error) {
	for _, a := range m.sorted(func(a *domain.Account) bool {
		return a.CanReceivePostings() && a.HasKeyword(keyword)
	}) {
		return a, nil
	}
	return nil, nil
}

func (m *MockAccountRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, account)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.accounts[account.ID] = account
	})
	return nil
}

func (m *MockAccountRepository) sorted(keep func(*domain.Account) bool) []*domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		if keep(a) {
			accounts = append(accounts, a)
		}
	}
	domain.SortAccountsByCode(accounts)
	return accounts
}

// MockEntryRepository is an in-memory EntryRepository. Reads return copies so
// uncommitted changes never leak into the store.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry
	seq     int64

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	QueryFunc        func(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.JournalEntry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.seq++
	entry.Seq = m.seq
	m.mu.Unlock()

	stored := copyEntry(entry)
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[stored.ID] = stored
	})
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return copyEntry(e), nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.UpdateStatusFunc != nil {
		if err := m.UpdateStatusFunc(ctx, tx, entry); err != nil {
			return err
		}
	}
	stored := copyEntry(entry)
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[stored.ID] = stored
	})
	return nil
}

func (m *MockEntryRepository) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if filter.Matches(e) {
			entries = append(entries, copyEntry(e))
		}
	}
	slices.SortFunc(entries, func(a, b *domain.JournalEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.Seq - b.Seq)
	})
	return entries, nil
}

// Len returns the number of committed entries.
func (m *MockEntryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func copyEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	if e.Suggestion != nil {
		s := *e.Suggestion
		c.Suggestion = &s
	}
	if e.Confidence != nil {
		v := *e.Confidence
		c.Confidence = &v
	}
	return &c
}

// MockRuleRepository is an in-memory RuleRepository.
type MockRuleRepository struct {
	mu     sync.RWMutex
	rules  map[string]*domain.ClassificationRule
	nextID int64

	ReinforceFunc func(ctx context.Context, tx usecase.Transaction, term, accountID string, now time.Time) (*domain.ClassificationRule, error)
	BestMatchFunc func(ctx context.Context, term string) (*domain.ClassificationRule, error)
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{
		rules: make(map[string]*domain.ClassificationRule),
	}
}

func ruleKey(term, accountID string) string {
	return term + "\x00" + accountID
}

func (m *MockRuleRepository) Reinforce(ctx context.Context, tx usecase.Transaction, term, accountID string, now time.Time) (*domain.ClassificationRule, error) {
	if m.ReinforceFunc != nil {
		return m.ReinforceFunc(ctx, tx, term, accountID, now)
	}
	m.mu.Lock()
	key := ruleKey(term, accountID)
	var rule domain.ClassificationRule
	if existing, ok := m.rules[key]; ok {
		rule = *existing
		rule.Confidence++
	} else {
		m.nextID++
		rule = domain.ClassificationRule{ID: m.nextID, Term: term, AccountID: accountID, Confidence: 1, CreatedAt: now}
	}
	rule.UpdatedAt = now
	m.mu.Unlock()

	stored := rule
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rules[key] = &stored
	})
	return &rule, nil
}

func (m *MockRuleRepository) BestMatch(ctx context.Context, term string) (*domain.ClassificationRule, error) {
	if m.BestMatchFunc != nil {
		return m.BestMatchFunc(ctx, term)
	}
	rules, _ := m.ListByTerm(ctx, term)
	if len(rules) == 0 {
		return nil, nil
	}
	domain.RankRules(rules)
	return rules[0], nil
}

func (m *MockRuleRepository) ListByTerm(ctx context.Context, term string) ([]*domain.ClassificationRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rules []*domain.ClassificationRule
	for _, r := range m.rules {
		if r.Term == term {
			c := *r
			rules = append(rules, &c)
		}
	}
	return rules, nil
}

// Get returns the committed rule for (term, accountID), or nil.
func (m *MockRuleRepository) Get(term, accountID string) *domain.ClassificationRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules[ruleKey(term, accountID)]
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = append(m.events, event)
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(events) < limit {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = slices.DeleteFunc(m.events, func(e *domain.OutboxEvent) bool {
		return e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before)
	})
	return nil
}

// EventTypes returns the types of the committed events in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockLedgerRepository is a stub LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (*domain.ConsistencyReport, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return &domain.ConsistencyReport{}, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Transactions returns every transaction begun so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.txs)
}

// MockTransaction stages repository writes and applies them on Commit.
type MockTransaction struct {
	mu         sync.Mutex
	ops        []func()
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	ops := m.ops
	m.ops = nil
	m.Committed = true
	m.mu.Unlock()
	for _, op := range ops {
		op()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Committed {
		return nil
	}
	m.ops = nil
	m.RolledBack = true
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%03d", m.counter)
}

// MockChartCache records invalidations.
type MockChartCache struct {
	mu            sync.Mutex
	Invalidations int

	InvalidateFunc func(ctx context.Context) error
}

func (m *MockChartCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.Invalidations++
	m.mu.Unlock()
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx)
	}
	return nil
}

// MockRetrier retries an operation a fixed number of times.
type MockRetrier struct {
	Attempts int
	calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i <= m.Attempts; i++ {
		m.calls++
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

// Calls returns how many times the operation ran.
func (m *MockRetrier) Calls() int {
	return m.calls
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
