package app

import (
	"gorm.io/gorm"

	httpH "github.com/vendorconnect/vendorconnect-backend/internal/http/handlers"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	TrustScore *httpH.TrustScoreHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		TrustScore: httpH.NewTrustScoreHandlerWithDeps(httpH.TrustScoreHandlerDeps{
			Log:        log,
			TrustScore: services.TrustScore,
		}),
	}
}
