// Package grpcserver exposes the recommendation service over gRPC.
package grpcserver

import (
	"context"
	"errors"

	"github.com/actuallystonmai/boutique-recommendation/internal/catalog"
	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"github.com/actuallystonmai/boutique-recommendation/internal/hipstershop"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Recommender interface {
	ListRecommendations(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResponse, error)
}

// RecommendationServer implements hipstershop.RecommendationService.
type RecommendationServer struct {
	hipstershop.UnimplementedRecommendationServiceServer
	recommender Recommender
}

func NewRecommendationServer(r Recommender) *RecommendationServer {
	return &RecommendationServer{recommender: r}
}

func (s *RecommendationServer) ListRecommendations(ctx context.Context, req *hipstershop.ListRecommendationsRequest) (*hipstershop.ListRecommendationsResponse, error) {
	resp, err := s.recommender.ListRecommendations(ctx, domain.RecommendationRequest{
		UserID:     req.UserID,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &hipstershop.ListRecommendationsResponse{ProductIDs: resp.ProductIDs}, nil
}

// toStatus maps service errors onto gRPC codes. Upstream failures become
// Unavailable so callers can tell them apart from bugs.
func toStatus(err error) error {
	switch {
	case catalog.IsUpstreamUnavailable(err):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
