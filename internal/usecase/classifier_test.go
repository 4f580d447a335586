package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
	"github.com/iho/contabil/internal/usecase/mocks"
)

func movement(direction domain.Direction, description, fallback string) domain.Movement {
	return domain.Movement{
		Direction:         direction,
		Description:       description,
		Amount:            decimal.NewFromInt(100),
		FallbackAccountID: fallback,
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name           string
		movement       domain.Movement
		learn          map[string]string
		wantSource     domain.MatchSource
		wantApplied    string
		wantDebit      string
		wantCredit     string
		wantConfidence int
		expectError    error
	}{
		{
			name:           "keyword match on payable",
			movement:       movement(domain.DirectionPayable, "Pagamento aluguel sede", ""),
			wantSource:     domain.MatchSourceKeyword,
			wantApplied:    accRent,
			wantDebit:      accRent,
			wantCredit:     accBank,
			wantConfidence: domain.KeywordConfidence,
		},
		{
			name:           "first matching token wins",
			movement:       movement(domain.DirectionPayable, "conta de luz e aluguel", ""),
			wantSource:     domain.MatchSourceKeyword,
			wantApplied:    accEnergy,
			wantDebit:      accEnergy,
			wantCredit:     accBank,
			wantConfidence: domain.KeywordConfidence,
		},
		{
			name:           "keyword match is case-insensitive",
			movement:       movement(domain.DirectionPayable, "ENERGIA", ""),
			wantSource:     domain.MatchSourceKeyword,
			wantApplied:    accEnergy,
			wantDebit:      accEnergy,
			wantCredit:     accBank,
			wantConfidence: domain.KeywordConfidence,
		},
		{
			name:           "receivable swaps the legs",
			movement:       movement(domain.DirectionReceivable, "Aluguel", ""),
			wantSource:     domain.MatchSourceKeyword,
			wantApplied:    accRent,
			wantDebit:      accRevenue,
			wantCredit:     accRent,
			wantConfidence: domain.KeywordConfidence,
		},
		{
			name:           "learned rule beats keyword",
			movement:       movement(domain.DirectionPayable, "Aluguel maio", ""),
			learn:          map[string]string{"Aluguel maio": accMisc},
			wantSource:     domain.MatchSourceLearned,
			wantApplied:    accMisc,
			wantDebit:      accMisc,
			wantCredit:     accBank,
			wantConfidence: domain.LearnedConfidence(1),
		},
		{
			name:           "learned rule pointing at the counter account is skipped",
			movement:       movement(domain.DirectionPayable, "aluguel", ""),
			learn:          map[string]string{"aluguel": accBank},
			wantSource:     domain.MatchSourceKeyword,
			wantApplied:    accRent,
			wantDebit:      accRent,
			wantCredit:     accBank,
			wantConfidence: domain.KeywordConfidence,
		},
		{
			name:           "keyword on the counter account is skipped",
			movement:       movement(domain.DirectionReceivable, "Mensalidade junho", accCash),
			wantSource:     domain.MatchSourceFallback,
			wantApplied:    accCash,
			wantDebit:      accRevenue,
			wantCredit:     accCash,
			wantConfidence: domain.FallbackConfidence,
		},
		{
			name:           "inactive keyword account falls back",
			movement:       movement(domain.DirectionPayable, "internet fibra", accMisc),
			wantSource:     domain.MatchSourceFallback,
			wantApplied:    accMisc,
			wantDebit:      accMisc,
			wantCredit:     accBank,
			wantConfidence: domain.FallbackConfidence,
		},
		{
			name:        "no match and no fallback",
			movement:    movement(domain.DirectionPayable, "Serviço avulso", ""),
			expectError: domain.ErrUnclassifiable,
		},
		{
			name:        "grouping fallback is rejected",
			movement:    movement(domain.DirectionPayable, "Serviço avulso", accExpenses),
			expectError: domain.ErrUnclassifiable,
		},
		{
			name:        "unknown fallback is rejected",
			movement:    movement(domain.DirectionPayable, "Serviço avulso", "acc-ghost"),
			expectError: domain.ErrUnclassifiable,
		},
		{
			name:        "unknown direction",
			movement:    movement(domain.Direction("transfer"), "aluguel", ""),
			expectError: domain.ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()

			for term, accountID := range tt.learn {
				_, err := e.learning.Reinforce(ctx, nil, term, accountID)
				require.NoError(t, err)
			}

			got, err := e.classifier.Classify(ctx, tt.movement)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantApplied, got.AppliedAccountID)
			assert.Equal(t, tt.wantDebit, got.DebitAccountID)
			assert.Equal(t, tt.wantCredit, got.CreditAccountID)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.NotEqual(t, got.DebitAccountID, got.CreditAccountID)
			assert.NotEmpty(t, got.Rationale)
		})
	}
}

func TestClassifier_NoCounterAccount(t *testing.T) {
	policy := usecase.DefaultClassificationPolicy()
	policy.PayableCounterPrefix = "9"
	e := newEnvWithPolicy(t, policy)

	_, err := e.classifier.Classify(context.Background(), movement(domain.DirectionPayable, "aluguel", accMisc))

	require.ErrorIs(t, err, domain.ErrUnclassifiable)
}

func TestClassifier_LearnedConfidenceGrowsWithApprovals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for range 3 {
		_, err := e.learning.Reinforce(ctx, nil, "Condomínio", accMisc)
		require.NoError(t, err)
	}

	got, err := e.classifier.Classify(ctx, movement(domain.DirectionPayable, "  Condomínio ", ""))

	require.NoError(t, err)
	assert.Equal(t, domain.MatchSourceLearned, got.Source)
	assert.Equal(t, domain.LearnedConfidence(3), got.Confidence)
}

func TestClassifier_WithGeneratedMocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	chart := mocks.NewMockChartOfAccounts(ctrl)
	learning := mocks.NewMockLearningStore(ctrl)

	bank := &domain.Account{ID: accBank, Code: "1.1.01.01", Postable: true, Active: true}
	rent := &domain.Account{ID: accRent, Code: "4.1.01.01", Postable: true, Active: true}

	chart.EXPECT().LookupByCodePrefix(gomock.Any(), "1.1.01").Return([]*domain.Account{bank}, nil)
	learning.EXPECT().BestMatch(gomock.Any(), "aluguel antigo").
		Return(&domain.ClassificationRule{Term: "aluguel antigo", AccountID: "acc-deleted", Confidence: 7}, nil)
	chart.EXPECT().GetAccount(gomock.Any(), "acc-deleted").Return(nil, domain.ErrAccountNotFound)
	chart.EXPECT().LookupByKeyword(gomock.Any(), "aluguel").Return(rent, nil)

	c := usecase.NewClassifier(chart, learning, usecase.DefaultClassificationPolicy(), zerolog.Nop())
	got, err := c.Classify(context.Background(), movement(domain.DirectionPayable, "aluguel antigo", ""))

	require.NoError(t, err)
	assert.Equal(t, domain.MatchSourceKeyword, got.Source)
	assert.Equal(t, accRent, got.DebitAccountID)
	assert.Equal(t, accBank, got.CreditAccountID)
}

func TestClassifier_StorageErrorsSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	chart := mocks.NewMockChartOfAccounts(ctrl)
	learning := mocks.NewMockLearningStore(ctrl)

	boom := errors.New("connection reset")
	chart.EXPECT().LookupByCodePrefix(gomock.Any(), gomock.Any()).
		Return([]*domain.Account{{ID: accBank, Postable: true, Active: true}}, nil)
	learning.EXPECT().BestMatch(gomock.Any(), gomock.Any()).Return(nil, boom)

	c := usecase.NewClassifier(chart, learning, usecase.DefaultClassificationPolicy(), zerolog.Nop())
	_, err := c.Classify(context.Background(), movement(domain.DirectionPayable, "aluguel", ""))

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUnclassifiable)
}

func TestClassificationPolicy_NeedsReview(t *testing.T) {
	p := usecase.DefaultClassificationPolicy()

	assert.False(t, p.NeedsReview(decimal.RequireFromString("1000.00")))
	assert.True(t, p.NeedsReview(decimal.RequireFromString("1000.01")))
	assert.Equal(t, "3.1", p.CounterPrefix(domain.DirectionReceivable))
	assert.Equal(t, "1.1.01", p.CounterPrefix(domain.DirectionPayable))
}
