package redis

import (
	"context"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/contabil/internal/infrastructure/redis"
)

// newTestRedisClient starts an in-memory Redis and connects to it through
// the same constructor the server uses.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}

	return client, mr
}

// chartKeys returns the cached chart lookups stored for generation.
func chartKeys(mr *miniredis.Miniredis, generation string) []string {
	prefix := chartCachePrefix + "v" + generation + ":"
	var keys []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
