package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/metrics"
	"github.com/iho/contabil/internal/usecase"
)

const (
	chartCachePrefix   = "chart:"
	chartGenerationKey = "generation"

	// DefaultChartCacheTTL bounds how long a lookup may be served after an
	// invalidation was missed.
	DefaultChartCacheTTL = 10 * time.Minute
)

// CachedAccountRepository caches the chart lookups the classifier hits on
// every movement. Entries are keyed by a generation counter, so Invalidate
// only has to bump the counter. Redis failures fall through to the
// underlying repository.
type CachedAccountRepository struct {
	usecase.AccountRepository

	cache   *Cache
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewChartCache returns the cache namespace used for chart lookups.
func NewChartCache(client redis.UniversalClient) *Cache {
	return NewCache(client, chartCachePrefix)
}

// NewCachedAccountRepository wraps repo with a Redis read-through cache.
func NewCachedAccountRepository(repo usecase.AccountRepository, cache *Cache, ttl time.Duration, logger zerolog.Logger, m *metrics.Metrics) *CachedAccountRepository {
	if ttl <= 0 {
		ttl = DefaultChartCacheTTL
	}
	return &CachedAccountRepository{
		AccountRepository: repo,
		cache:             cache,
		ttl:               ttl,
		logger:            logger,
		metrics:           m,
	}
}

// GetByID returns the account, served from cache when possible.
func (r *CachedAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var acc *domain.Account
	err := r.readThrough(ctx, "id:"+id, &acc, func() (any, error) {
		return r.AccountRepository.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// ListPostableByPrefix returns the postable accounts under prefix, served from cache when possible.
func (r *CachedAccountRepository) ListPostableByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.readThrough(ctx, "prefix:"+prefix, &accounts, func() (any, error) {
		return r.AccountRepository.ListPostableByPrefix(ctx, prefix)
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindPostableByKeyword returns the keyword match, served from cache when
// possible. Misses are cached too.
func (r *CachedAccountRepository) FindPostableByKeyword(ctx context.Context, keyword string) (*domain.Account, error) {
	var acc *domain.Account
	err := r.readThrough(ctx, "keyword:"+domain.NormalizeKeyword(keyword), &acc, func() (any, error) {
		return r.AccountRepository.FindPostableByKeyword(ctx, keyword)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Invalidate drops every cached lookup by moving to a new generation.
func (r *CachedAccountRepository) Invalidate(ctx context.Context) error {
	gen, err := r.cache.Incr(ctx, chartGenerationKey)
	if err != nil {
		return fmt.Errorf("invalidating chart cache: %w", err)
	}
	r.logger.Debug().Int64("generation", gen).Msg("chart cache invalidated")
	return nil
}

// readThrough decodes the cached value for key into dst, or calls load and
// caches its result. Only successful loads are cached.
func (r *CachedAccountRepository) readThrough(ctx context.Context, key string, dst any, load func() (any, error)) error {
	fullKey, err := r.versionedKey(ctx, key)
	if err == nil {
		raw, found, getErr := r.cache.Get(ctx, fullKey)
		switch {
		case getErr != nil:
			err = getErr
		case found:
			if decodeErr := json.Unmarshal([]byte(raw), dst); decodeErr == nil {
				r.observe("hit")
				return nil
			}
		}
	}
	if err != nil {
		r.observe("error")
		r.logger.Warn().Err(err).Str("key", key).Msg("chart cache unavailable, reading from database")
	} else {
		r.observe("miss")
	}

	value, loadErr := load()
	if loadErr != nil {
		return loadErr
	}

	encoded, encErr := json.Marshal(value)
	if encErr != nil {
		return encErr
	}
	if err := json.Unmarshal(encoded, dst); err != nil {
		return err
	}

	if fullKey != "" {
		if setErr := r.cache.Set(ctx, fullKey, string(encoded), r.ttl); setErr != nil {
			r.logger.Warn().Err(setErr).Str("key", key).Msg("chart cache write failed")
		}
	}
	return nil
}

func (r *CachedAccountRepository) versionedKey(ctx context.Context, key string) (string, error) {
	gen, found, err := r.cache.Get(ctx, chartGenerationKey)
	if err != nil {
		return "", err
	}
	if !found {
		gen = "0"
	}
	return "v" + gen + ":" + key, nil
}

func (r *CachedAccountRepository) observe(result string) {
	if r.metrics != nil {
		r.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}
