package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads the catalog from a Redis list of product ids.
type RedisSource struct {
	client  redis.Cmdable
	key     string
	addr    string
	timeout time.Duration
}

func NewRedisSource(client redis.Cmdable, key, addr string, timeout time.Duration) *RedisSource {
	return &RedisSource{client: client, key: key, addr: Redact(addr), timeout: timeout}
}

func (s *RedisSource) ListProductIDs(ctx context.Context) ([]string, error) {
	callCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	ids, err := s.client.LRange(callCtx, s.key, 0, -1).Result()
	if err != nil {
		return nil, upstreamErr(ctx, BackendRedis, s.addr, fmt.Errorf("lrange %s: %w", s.key, err))
	}
	return ids, nil
}
