package services

import (
	"math"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/market"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/trust"
)

// Term weights; a supplier with perfect records sums to trust.MaxScore.
const (
	OrderCompletionWeight   = 40.0
	PaymentTimelinessWeight = 30.0
	RatingWeight            = 30.0
)

// TrustInputs is everything a recalculation reads from the ledgers.
type TrustInputs struct {
	Role     types.Role
	Orders   types.OrderStats
	Payments types.PaymentStats
	// Ratings is only consulted for suppliers.
	Ratings []float64
}

type TrustComputation struct {
	Score float64

	OrderCompletionTerm   float64
	PaymentTimelinessTerm float64
	RatingTerm            float64

	// Percentages and averages behind the terms.
	FulfillmentPct    float64
	PaymentOnTimePct  float64
	AverageRating     float64
	OnTimeDeliveryPct float64
	Supplier          bool
}

// ComputeTrustScore is the deterministic score function. Each term is zero
// when its denominator is zero.
func ComputeTrustScore(in TrustInputs) TrustComputation {
	var out TrustComputation
	out.Supplier = in.Role == types.RoleSupplier

	if in.Orders.Total > 0 {
		ratio := float64(in.Orders.Delivered()) / float64(in.Orders.Total)
		out.FulfillmentPct = ratio * 100
		out.OrderCompletionTerm = ratio * OrderCompletionWeight
	}
	if in.Payments.Completed > 0 {
		ratio := float64(in.Payments.OnTimeCompleted) / float64(in.Payments.Completed)
		out.PaymentOnTimePct = ratio * 100
		out.PaymentTimelinessTerm = ratio * PaymentTimelinessWeight
	}
	if out.Supplier {
		if len(in.Ratings) > 0 {
			sum := 0.0
			for _, r := range in.Ratings {
				sum += r
			}
			out.AverageRating = sum / float64(len(in.Ratings))
			out.RatingTerm = out.AverageRating / market.MaxStars * RatingWeight
		}
		if in.Orders.Deliveries > 0 {
			out.OnTimeDeliveryPct = float64(in.Orders.OnTimeDeliveries) / float64(in.Orders.Deliveries) * 100
		}
	}

	out.Score = ClampScore(out.OrderCompletionTerm + out.PaymentTimelinessTerm + out.RatingTerm)
	return out
}

// ApplyTo writes the derived factors into f. Reserved factors are left as they
// are, and vendors keep whatever rating and delivery factors were stored.
func (c TrustComputation) ApplyTo(f *types.TrustFactors) {
	if f == nil {
		return
	}
	f.OrderFulfillment = c.FulfillmentPct
	f.PaymentTimeliness = c.PaymentOnTimePct
	if c.Supplier {
		f.CustomerRating = c.AverageRating
		f.OnTimeDelivery = c.OnTimeDeliveryPct
	}
}

// ClampScore bounds v to [0, 100]; NaN becomes 0.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return trust.MinScore
	}
	return math.Max(trust.MinScore, math.Min(trust.MaxScore, v))
}
