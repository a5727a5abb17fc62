package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
	"github.com/rs/zerolog"
)

// GET /recommendations?user_id=...&product_id=...&product_id=...
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.RecommendationRequest{
		UserID:     q.Get("user_id"),
		ProductIDs: q["product_id"],
	}

	resp, err := h.service.ListRecommendations(r.Context(), req)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("list recommendations")

		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "catalog_unavailable",
				"Product catalog is temporarily unavailable")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
