package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/config"
	"github.com/actuallystonmai/boutique-recommendation/internal/health"
	"github.com/actuallystonmai/boutique-recommendation/internal/logging"
	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/actuallystonmai/boutique-recommendation/internal/recommend"
	"github.com/actuallystonmai/boutique-recommendation/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Online Boutique recommendation service",
	Long: `Serves hipstershop.RecommendationService over gRPC on $PORT.

Product ids are fetched from PRODUCT_CATALOG_SERVICE_ADDR on every call:
  host:port         - upstream ProductCatalogService over gRPC
  postgres://...    - products table (see "server seed")
  redis://...       - list at CATALOG_REDIS_KEY`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

// setup loads configuration and builds the root logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, log, nil
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Msg("initializing recommendationservice")
	log.Info().Str("addr", catalog.Redact(cfg.CatalogAddr)).
		Str("backend", catalog.Backend(cfg.CatalogAddr)).
		Msg("product catalog address")

	m := metrics.New()
	src, closer, err := catalog.Open(ctx, cfg, log, m)
	if err != nil {
		return fmt.Errorf("open product catalog: %w", err)
	}
	defer closer.Close()

	host, err := server.New(cfg, server.Deps{
		Catalog: src,
		Engine:  recommend.NewEngine(),
		Health:  health.NewResponder(),
		Metrics: m,
		Log:     log,
	})
	if err != nil {
		return err
	}

	if err := host.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
