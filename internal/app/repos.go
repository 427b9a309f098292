package app

import (
	"gorm.io/gorm"

	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type Repos struct {
	User repos.UserRepo

	Orders   repos.OrderLedger
	Payments repos.PaymentLedger
	Ratings  repos.RatingLedger

	TrustScore        repos.TrustScoreRepo
	TrustScoreHistory repos.TrustScoreHistoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		Orders:            repos.NewOrderLedger(db, log),
		Payments:          repos.NewPaymentLedger(db, log),
		Ratings:           repos.NewRatingLedger(db, log),
		TrustScore:        repos.NewTrustScoreRepo(db, log),
		TrustScoreHistory: repos.NewTrustScoreHistoryRepo(db, log),
	}
}
