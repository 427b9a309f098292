package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	httpH "github.com/vendorconnect/vendorconnect-backend/internal/http/handlers"
	httpMW "github.com/vendorconnect/vendorconnect-backend/internal/http/middleware"
	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthMiddleware    *httpMW.AuthMiddleware
	TrustScoreHandler *httpH.TrustScoreHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Trust score
		if cfg.TrustScoreHandler != nil {
			ts := protected.Group("/trust-score")
			ts.GET("/score/:userId", cfg.TrustScoreHandler.GetScore)
			ts.GET("/history/:userId", cfg.TrustScoreHandler.GetHistory)
			ts.POST("/update-factors/:userId", cfg.TrustScoreHandler.UpdateFactors)
			ts.GET("/rankings", cfg.TrustScoreHandler.GetRankings)
			ts.POST("/recalculate", cfg.TrustScoreHandler.Recalculate)

			admin := ts.Group("/")
			if cfg.AuthMiddleware != nil {
				admin.Use(cfg.AuthMiddleware.RequireRole(string(types.RoleAdmin)))
			}
			admin.POST("/initialize/:userId", cfg.TrustScoreHandler.Initialize)
			admin.POST("/recalculate-all", cfg.TrustScoreHandler.RecalculateAll)
		}
	}

	return r
}
