package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/actuallystonmai/boutique-recommendation/internal/config"
	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open builds the Source named by cfg.CatalogAddr and wraps it in a circuit
// breaker unless CATALOG_BREAKER_FAILURES is 0. The returned Closer releases
// the underlying connection. m may be nil.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (Source, io.Closer, error) {
	src, closer, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.BreakerFailures == 0 {
		return src, closer, nil
	}

	settings := BreakerSettings{
		Failures: uint32(cfg.BreakerFailures),
		Timeout:  cfg.BreakerTimeout,
	}
	if m != nil {
		settings.OnStateChange = func(to gobreaker.State) {
			m.BreakerState.Set(float64(to))
		}
	}
	return NewBreaker(src, "product-catalog", settings, log), closer, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Source, io.Closer, error) {
	addr := cfg.CatalogAddr

	switch Backend(addr) {
	case BackendPostgres:
		poolConfig, err := pgxpool.ParseConfig(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("parse catalog database config: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.DBPoolSize)
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("create catalog database pool: %w", err)
		}
		return NewPostgresSource(pool, addr, cfg.CatalogTimeout), closerFunc(func() error {
			pool.Close()
			return nil
		}), nil

	case BackendRedis:
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("parse catalog redis url: %w", err)
		}
		client := redis.NewClient(opts)
		return NewRedisSource(client, cfg.RedisKey, addr, cfg.CatalogTimeout), client, nil

	default:
		src, err := DialGRPC(addr, cfg.CatalogTimeout)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	}
}
