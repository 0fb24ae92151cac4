package api

import (
	"net/http"

	"tarim-admin/internal/logger"
	"tarim-admin/internal/metrics"
	"tarim-admin/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires the routes behind request-id, logging, auth, rate limiting
// and CORS.
func NewRouter(h *Handler, limiter *middleware.RateLimiter, origins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		timed(h.Metrics),
		middleware.AuthMiddleware,
		limiter.Middleware,
	)
	h.RegisterRoutes(r)

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-ID", "X-Client-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(r)
}

func timed(reg *metrics.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := metrics.StartTimer()
			next.ServeHTTP(w, r)
			reg.Observe("http_request", t)
		})
	}
}
