package main

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/config"
	"github.com/actuallystonmai/boutique-recommendation/migrations"
	"github.com/actuallystonmai/boutique-recommendation/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the stock product catalog into the configured backend",
	Long: `Writes the Online Boutique product ids into the backend named by
PRODUCT_CATALOG_SERVICE_ADDR. For postgres:// the products table is
created first; for redis:// the list at CATALOG_REDIS_KEY is replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		return seed(cmd.Context(), cfg, log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "migrate-down",
	Short: "Drop the products table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if catalog.Backend(cfg.CatalogAddr) != catalog.BackendPostgres {
			return fmt.Errorf("migrate-down needs a postgres:// catalog address")
		}

		pool, err := connectDB(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.Down(cmd.Context(), pool); err != nil {
			return fmt.Errorf("failed to migrate down: %w", err)
		}
		log.Info().Msg("migrations dropped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateDownCmd)
}

func seed(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	switch catalog.Backend(cfg.CatalogAddr) {
	case catalog.BackendPostgres:
		pool, err := connectDB(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.Up(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate up: %w", err)
		}
		log.Info().Msg("migrations applied")
		return seeds.Postgres(ctx, pool, seeds.Products, log)

	case catalog.BackendRedis:
		opts, err := redis.ParseURL(cfg.CatalogAddr)
		if err != nil {
			return fmt.Errorf("parse catalog redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		return seeds.Redis(ctx, client, cfg.RedisKey, seeds.Products, log)

	default:
		return fmt.Errorf("seed needs a postgres:// or redis:// catalog address, got %s", catalog.Redact(cfg.CatalogAddr))
	}
}

func connectDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.CatalogAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := waitForDB(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	log.Info().Msg("connected to PostgreSQL")
	return pool, nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info().Msgf("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}
