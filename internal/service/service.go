package service

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"github.com/actuallystonmai/boutique-recommendation/internal/metrics"
	"github.com/actuallystonmai/boutique-recommendation/internal/recommend"
	"github.com/rs/zerolog"
)

type Service struct {
	catalog catalog.Source
	engine  *recommend.Engine
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewService(src catalog.Source, engine *recommend.Engine, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		catalog: src,
		engine:  engine,
		metrics: m,
		log:     log,
	}
}

// ListRecommendations fetches the catalog and samples from it. The user id
// is logged but does not influence the selection.
func (s *Service) ListRecommendations(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResponse, error) {
	productIDs, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	recs := s.engine.Recommend(productIDs, req.ProductIDs)
	s.metrics.Recommended.Observe(float64(len(recs)))

	s.log.Info().
		Str("user_id", req.UserID).
		Strs("product_ids", recs).
		Msg("[Recv ListRecommendations]")

	return &domain.RecommendationResponse{ProductIDs: recs}, nil
}

func (s *Service) fetchCatalog(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.catalog.ListProductIDs(ctx)
	s.metrics.CatalogTime.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.CatalogCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch product catalog: %w", err)
	}
	s.metrics.CatalogCalls.WithLabelValues("ok").Inc()
	return ids, nil
}
