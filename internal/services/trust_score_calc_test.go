package services

import (
	"math"
	"math/rand"
	"testing"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
)

func orderStats(total, delivered int64) types.OrderStats {
	return types.OrderStats{
		Total:    total,
		ByStatus: map[types.OrderStatus]int64{types.OrderStatusDelivered: delivered},
	}
}

func TestComputeTrustScoreZeroData(t *testing.T) {
	for _, role := range []types.Role{types.RoleVendor, types.RoleSupplier} {
		got := ComputeTrustScore(TrustInputs{Role: role})
		if got.Score != 0 {
			t.Fatalf("%s with no data: want=0 got=%v", role, got.Score)
		}
	}
}

func TestComputeTrustScorePerfectVendor(t *testing.T) {
	got := ComputeTrustScore(TrustInputs{
		Role:     types.RoleVendor,
		Orders:   orderStats(12, 12),
		Payments: types.PaymentStats{Completed: 9, OnTimeCompleted: 9},
		// Ratings never count for vendors.
		Ratings: []float64{5, 5},
	})
	if got.Score != 70 {
		t.Fatalf("perfect vendor: want=70 got=%v", got.Score)
	}
	if got.RatingTerm != 0 {
		t.Fatalf("perfect vendor: rating term should be 0, got %v", got.RatingTerm)
	}
}

func TestComputeTrustScorePerfectSupplier(t *testing.T) {
	got := ComputeTrustScore(TrustInputs{
		Role:     types.RoleSupplier,
		Orders:   types.OrderStats{Total: 4, ByStatus: map[types.OrderStatus]int64{types.OrderStatusDelivered: 4}, Deliveries: 4, OnTimeDeliveries: 3},
		Payments: types.PaymentStats{Completed: 2, OnTimeCompleted: 2},
		Ratings:  []float64{5, 5, 5},
	})
	if got.Score != 100 {
		t.Fatalf("perfect supplier: want=100 got=%v", got.Score)
	}
	if got.OnTimeDeliveryPct != 75 {
		t.Fatalf("on-time delivery pct: want=75 got=%v", got.OnTimeDeliveryPct)
	}
}

func TestComputeTrustScoreMixed(t *testing.T) {
	got := ComputeTrustScore(TrustInputs{
		Role:     types.RoleSupplier,
		Orders:   orderStats(4, 2),
		Payments: types.PaymentStats{Completed: 4, OnTimeCompleted: 1},
		Ratings:  []float64{4, 2},
	})
	// 0.5*40 + 0.25*30 + (3/5)*30 = 20 + 7.5 + 18
	if math.Abs(got.Score-45.5) > 1e-9 {
		t.Fatalf("mixed supplier: want=45.5 got=%v", got.Score)
	}
}

func TestComputeTrustScoreAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		total := rng.Int63n(50)
		completed := rng.Int63n(50)
		in := TrustInputs{
			Role:     []types.Role{types.RoleVendor, types.RoleSupplier}[rng.Intn(2)],
			Orders:   orderStats(total, rng.Int63n(total+1)),
			Payments: types.PaymentStats{Completed: completed, OnTimeCompleted: rng.Int63n(completed + 1)},
		}
		for j := rng.Intn(6); j > 0; j-- {
			// Out-of-range stars still may not push the score past the bounds.
			in.Ratings = append(in.Ratings, rng.Float64()*20-5)
		}
		got := ComputeTrustScore(in).Score
		if got < 0 || got > 100 || math.IsNaN(got) {
			t.Fatalf("case %d: score %v out of range for %+v", i, got, in)
		}
	}
}

func TestClampScore(t *testing.T) {
	cases := map[float64]float64{-3: 0, 0: 0, 55.5: 55.5, 100: 100, 140: 100}
	for in, want := range cases {
		if got := ClampScore(in); got != want {
			t.Fatalf("ClampScore(%v): want=%v got=%v", in, want, got)
		}
	}
	if got := ClampScore(math.NaN()); got != 0 {
		t.Fatalf("ClampScore(NaN): want=0 got=%v", got)
	}
}

func TestTrustComputationApplyToKeepsReservedFactors(t *testing.T) {
	f := types.TrustFactors{PricingCompetitiveness: 11, OrderConsistency: 22, PlatformEngagement: 33, CustomerRating: 4.2}
	ComputeTrustScore(TrustInputs{Role: types.RoleVendor, Orders: orderStats(2, 1)}).ApplyTo(&f)
	if f.OrderFulfillment != 50 {
		t.Fatalf("order fulfillment: want=50 got=%v", f.OrderFulfillment)
	}
	if f.PricingCompetitiveness != 11 || f.OrderConsistency != 22 || f.PlatformEngagement != 33 {
		t.Fatalf("reserved factors changed: %+v", f)
	}
	if f.CustomerRating != 4.2 {
		t.Fatalf("vendor customer rating should be untouched: %+v", f)
	}
}
