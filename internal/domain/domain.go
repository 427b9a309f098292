package domain

import (
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/market"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/trust"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/user"
)

type User = user.User
type Role = user.Role

const (
	RoleVendor   = user.RoleVendor
	RoleSupplier = user.RoleSupplier
	RoleAdmin    = user.RoleAdmin
)

type Order = market.Order
type OrderStatus = market.OrderStatus
type OrderStats = market.OrderStats
type Payment = market.Payment
type PaymentStatus = market.PaymentStatus
type PaymentStats = market.PaymentStats
type Rating = market.Rating

const (
	OrderStatusPending   = market.OrderStatusPending
	OrderStatusConfirmed = market.OrderStatusConfirmed
	OrderStatusShipped   = market.OrderStatusShipped
	OrderStatusDelivered = market.OrderStatusDelivered
	OrderStatusCancelled = market.OrderStatusCancelled

	PaymentStatusPending   = market.PaymentStatusPending
	PaymentStatusCompleted = market.PaymentStatusCompleted
	PaymentStatusFailed    = market.PaymentStatusFailed
	PaymentStatusRefunded  = market.PaymentStatusRefunded
)

type TrustScore = trust.TrustScore
type TrustScoreHistory = trust.TrustScoreHistory
type TrustFactors = trust.Factors
type TrustTier = trust.Tier
type RankingEntry = trust.RankingEntry
