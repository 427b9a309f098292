package app

import (
	"github.com/vendorconnect/vendorconnect-backend/internal/http"
	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.ServiceName,
		TracingEnabled:    cfg.OtelEnabled,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthMiddleware:    middleware.Auth,
		TrustScoreHandler: handlers.TrustScore,
		HealthHandler:     handlers.Health,
	})
}
