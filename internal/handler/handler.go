package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"github.com/actuallystonmai/boutique-recommendation/internal/health"
)

type Recommender interface {
	ListRecommendations(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResponse, error)
}

type Handler struct {
	service Recommender
	health  *health.Responder
}

func NewHandler(svc Recommender, hr *health.Responder) *Handler {
	return &Handler{service: svc, health: hr}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
