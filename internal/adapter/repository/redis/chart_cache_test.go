package redis

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
	"github.com/iho/contabil/internal/usecase/mocks"
)

type countingAccountRepo struct {
	*mocks.MockAccountRepository
	loads atomic.Int32
}

func (r *countingAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.loads.Add(1)
	return r.MockAccountRepository.GetByID(ctx, id)
}

func (r *countingAccountRepo) ListPostableByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	r.loads.Add(1)
	return r.MockAccountRepository.ListPostableByPrefix(ctx, prefix)
}

func (r *countingAccountRepo) FindPostableByKeyword(ctx context.Context, keyword string) (*domain.Account, error) {
	r.loads.Add(1)
	return r.MockAccountRepository.FindPostableByKeyword(ctx, keyword)
}

var (
	cachedBank = &domain.Account{
		ID: "acc-bank", Code: "1.1.01.01", Description: "Banco", Type: domain.AccountTypeAsset,
		Nature: domain.AccountNatureFixed, Postable: true, Active: true,
	}
	cachedEnergy = &domain.Account{
		ID: "acc-energy", Code: "4.1.02.01", Description: "Energia", Type: domain.AccountTypeExpense,
		Nature: domain.AccountNatureVariable, Postable: true, Active: true, Keywords: []string{"energia", "luz"},
	}
)

func newCachedRepo(t *testing.T) (*CachedAccountRepository, *countingAccountRepo, *metrics.Metrics, func()) {
	t.Helper()
	client, mr := newTestRedisClient(t)
	inner := &countingAccountRepo{MockAccountRepository: mocks.NewMockAccountRepository(cachedBank, cachedEnergy)}
	m := metrics.New(prometheus.NewRegistry())
	repo := NewCachedAccountRepository(inner, NewChartCache(client), time.Minute, zerolog.Nop(), m)
	return repo, inner, m, func() {
		client.Close()
		mr.Close()
	}
}

func TestCachedAccountRepositoryServesRepeatLookupsFromCache(t *testing.T) {
	repo, inner, m, closeFn := newCachedRepo(t)
	defer closeFn()
	ctx := context.Background()

	first, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)
	second, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "1.1.01.01", second[0].Code)
	assert.Equal(t, int32(1), inner.loads.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
}

func TestCachedAccountRepositoryCachesKeywordMisses(t *testing.T) {
	repo, inner, _, closeFn := newCachedRepo(t)
	defer closeFn()
	ctx := context.Background()

	for range 2 {
		acc, err := repo.FindPostableByKeyword(ctx, "condomínio")
		require.NoError(t, err)
		assert.Nil(t, acc)
	}
	assert.Equal(t, int32(1), inner.loads.Load())

	acc, err := repo.FindPostableByKeyword(ctx, "LUZ")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "acc-energy", acc.ID)
	assert.Equal(t, []string{"energia", "luz"}, acc.Keywords)
}

func TestCachedAccountRepositoryInvalidate(t *testing.T) {
	repo, inner, _, closeFn := newCachedRepo(t)
	defer closeFn()
	ctx := context.Background()

	_, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)

	inner.Add(&domain.Account{
		ID: "acc-cash", Code: "1.1.01.02", Description: "Caixa", Type: domain.AccountTypeAsset,
		Nature: domain.AccountNatureFixed, Postable: true, Active: true,
	})

	stale, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	require.NoError(t, repo.Invalidate(ctx))

	fresh, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, int32(2), inner.loads.Load())
}

func TestCachedAccountRepositoryDoesNotCacheErrors(t *testing.T) {
	repo, inner, _, closeFn := newCachedRepo(t)
	defer closeFn()
	ctx := context.Background()

	for range 2 {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	}
	assert.Equal(t, int32(2), inner.loads.Load())
}

func TestCachedAccountRepositoryFallsBackWhenRedisIsDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	inner := &countingAccountRepo{MockAccountRepository: mocks.NewMockAccountRepository(cachedBank)}
	m := metrics.New(prometheus.NewRegistry())
	repo := NewCachedAccountRepository(inner, NewChartCache(client), time.Minute, zerolog.Nop(), m)
	mr.Close()

	acc, err := repo.GetByID(context.Background(), "acc-bank")
	require.NoError(t, err)
	assert.Equal(t, "1.1.01.01", acc.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("error")))

	assert.Error(t, repo.Invalidate(context.Background()))
}

func TestCachedAccountRepositoryKeysLiveUnderChartNamespace(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	inner := &countingAccountRepo{MockAccountRepository: mocks.NewMockAccountRepository(cachedBank, cachedEnergy)}
	repo := NewCachedAccountRepository(inner, NewChartCache(client), time.Minute, zerolog.Nop(), nil)
	ctx := context.Background()

	_, err := repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)
	_, err = repo.FindPostableByKeyword(ctx, "luz")
	require.NoError(t, err)

	assert.Len(t, chartKeys(mr, "0"), 2)
	for _, k := range mr.Keys() {
		assert.True(t, strings.HasPrefix(k, chartCachePrefix), "key %q outside the chart namespace", k)
	}

	require.NoError(t, repo.Invalidate(ctx))
	_, err = repo.ListPostableByPrefix(ctx, "1.1.01")
	require.NoError(t, err)

	assert.Len(t, chartKeys(mr, "1"), 1)
	assert.Equal(t, "1", mustGet(t, mr, chartCachePrefix+chartGenerationKey))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
