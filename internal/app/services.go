package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

type Services struct {
	TrustScore    services.TrustScoreService
	TokenVerifier services.TokenVerifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	verifier, err := services.NewTokenVerifier(log, cfg.JWTSecretKey)
	if err != nil {
		return Services{}, fmt.Errorf("init token verifier: %w", err)
	}

	trustScore := services.NewTrustScoreService(
		db,
		log,
		reposet.User,
		reposet.Orders,
		reposet.Payments,
		reposet.Ratings,
		reposet.TrustScore,
		reposet.TrustScoreHistory,
		clients.Rankings,
		clients.Events,
		metrics,
		services.TrustScoreOptions{
			AllowScoreOverride: cfg.AllowScoreOverride,
			BatchConcurrency:   cfg.BatchConcurrency,
		},
	)

	return Services{
		TrustScore:    trustScore,
		TokenVerifier: verifier,
	}, nil
}
