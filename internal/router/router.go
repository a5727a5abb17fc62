package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Setup builds the ops HTTP surface served next to the gRPC listener. limit
// wraps the recommendation route so it shares the gRPC worker bound.
func Setup(h *handler.Handler, metrics http.Handler, limit func(http.Handler) http.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		ev := hlog.FromRequest(r).Info()
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			ev = hlog.FromRequest(r).Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("http request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.With(limit).Get("/recommendations", h.GetRecommendations)
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics)

	return r
}
