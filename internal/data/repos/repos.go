package repos

import (
	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos/market"
	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos/trust"
	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo

type OrderLedger = market.OrderLedger
type PaymentLedger = market.PaymentLedger
type RatingLedger = market.RatingLedger

type TrustScoreRepo = trust.TrustScoreRepo
type TrustScoreHistoryRepo = trust.TrustScoreHistoryRepo

var (
	NewUserRepo = user.NewUserRepo

	NewOrderLedger   = market.NewOrderLedger
	NewPaymentLedger = market.NewPaymentLedger
	NewRatingLedger  = market.NewRatingLedger

	NewTrustScoreRepo        = trust.NewTrustScoreRepo
	NewTrustScoreHistoryRepo = trust.NewTrustScoreHistoryRepo
)
