package handler

import (
	"net/http"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
)

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.health.Check("")
	code := http.StatusOK
	if st != domain.HealthServing {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: st.String()})
}
