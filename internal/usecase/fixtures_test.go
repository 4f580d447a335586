package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
	"github.com/iho/contabil/internal/usecase/mocks"
)

var postingDate = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

const (
	accBank     = "acc-bank"
	accCash     = "acc-cash"
	accLiquid   = "acc-liquid-group"
	accRevenue  = "acc-revenue"
	accRent     = "acc-rent"
	accEnergy   = "acc-energy"
	accInternet = "acc-internet"
	accMisc     = "acc-misc"
	accExpenses = "acc-expense-group"
)

func chartFixture() []*domain.Account {
	return []*domain.Account{
		{ID: accLiquid, Code: "1.1.01", Description: "Disponível", Type: domain.AccountTypeAsset, Nature: domain.AccountNatureVariable, Active: true},
		{ID: accBank, Code: "1.1.01.01", Description: "Bancos conta movimento", Type: domain.AccountTypeAsset, Nature: domain.AccountNatureVariable, Postable: true, Active: true},
		{ID: accCash, Code: "1.1.01.02", Description: "Caixa", Type: domain.AccountTypeAsset, Nature: domain.AccountNatureVariable, Postable: true, Active: true},
		{ID: accRevenue, Code: "3.1.01.01", Description: "Receita de serviços", Type: domain.AccountTypeRevenue, Nature: domain.AccountNatureVariable, Postable: true, Active: true, Keywords: []string{"mensalidade"}},
		{ID: accExpenses, Code: "4.1", Description: "Despesas operacionais", Type: domain.AccountTypeExpense, Nature: domain.AccountNatureFixed, Active: true},
		{ID: accRent, Code: "4.1.01.01", Description: "Aluguel", Type: domain.AccountTypeExpense, Nature: domain.AccountNatureFixed, Postable: true, Active: true, Keywords: []string{"aluguel", "locação"}},
		{ID: accEnergy, Code: "4.1.02.01", Description: "Energia elétrica", Type: domain.AccountTypeExpense, Nature: domain.AccountNatureVariable, Postable: true, Active: true, Keywords: []string{"energia", "luz"}},
		{ID: accInternet, Code: "4.1.03.01", Description: "Internet", Type: domain.AccountTypeExpense, Nature: domain.AccountNatureFixed, Postable: true, Active: false, Keywords: []string{"internet"}},
		{ID: accMisc, Code: "4.9.99.99", Description: "Despesas diversas", Type: domain.AccountTypeExpense, Nature: domain.AccountNatureVariable, Postable: true, Active: true},
	}
}

// env wires the usecases over in-memory repositories with staged transactions.
type env struct {
	accounts *mocks.MockAccountRepository
	entries  *mocks.MockEntryRepository
	rules    *mocks.MockRuleRepository
	outbox   *mocks.MockOutboxRepository
	ledgerDB *mocks.MockLedgerRepository
	txMgr    *mocks.MockTransactionManager
	idGen    *mocks.MockIDGenerator

	chart      *usecase.ChartUseCase
	ledger     *usecase.LedgerUseCase
	learning   *usecase.LearningUseCase
	classifier *usecase.Classifier
	posting    *usecase.PostingUseCase
	report     *usecase.ReportUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithPolicy(t, usecase.DefaultClassificationPolicy())
}

func newEnvWithPolicy(t *testing.T, policy usecase.ClassificationPolicy) *env {
	t.Helper()

	e := &env{
		accounts: mocks.NewMockAccountRepository(chartFixture()...),
		entries:  mocks.NewMockEntryRepository(),
		rules:    mocks.NewMockRuleRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		ledgerDB: mocks.NewMockLedgerRepository(),
		txMgr:    mocks.NewMockTransactionManager(),
		idGen:    mocks.NewMockIDGenerator(),
	}

	logger := zerolog.Nop()

	e.chart = usecase.NewChartUseCase(e.txMgr, e.accounts, e.idGen, nil, nil)
	e.ledger = usecase.NewLedgerUseCase(e.txMgr, nil, e.accounts, e.entries, e.outbox, e.ledgerDB, e.idGen, nil)
	e.learning = usecase.NewLearningUseCase(e.rules, nil)
	e.classifier = usecase.NewClassifier(e.chart, e.learning, policy, logger)
	e.posting = usecase.NewPostingUseCase(e.txMgr, nil, e.classifier, e.ledger, e.learning, logger, nil)
	e.report = usecase.NewReportUseCase(e.accounts, e.entries)

	return e
}

func payable(description, amount string) usecase.ClassifyAndPostInput {
	return usecase.ClassifyAndPostInput{
		Direction:   domain.DirectionPayable,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Date:        postingDate,
	}
}

func receivable(description, amount string) usecase.ClassifyAndPostInput {
	in := payable(description, amount)
	in.Direction = domain.DirectionReceivable
	return in
}

func draft(debit, credit, amount string, date time.Time) domain.EntryDraft {
	return domain.EntryDraft{
		Date:            date,
		Memo:            "lançamento manual",
		Amount:          decimal.RequireFromString(amount),
		DebitAccountID:  debit,
		CreditAccountID: credit,
	}
}
