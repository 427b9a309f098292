package trust

import "testing"

func TestTierFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{0, TierNew},
		{19.99, TierNew},
		{20, TierEmerging},
		{50, TierEstablished},
		{70, TierTrusted},
		{80, TierElite},
		{100, TierElite},
	}
	for _, tc := range cases {
		if got := TierFor(tc.score); got != tc.want {
			t.Fatalf("TierFor(%v): want=%s got=%s", tc.score, tc.want, got)
		}
	}
}

func TestSnapshotFactorsRoundTrip(t *testing.T) {
	f := Factors{OrderFulfillment: 75, PaymentTimeliness: 50, CustomerRating: 4.5}
	raw, err := SnapshotFactors(f)
	if err != nil {
		t.Fatalf("SnapshotFactors: %v", err)
	}
	h := &TrustScoreHistory{Factors: raw}
	got, err := h.DecodeFactors()
	if err != nil {
		t.Fatalf("DecodeFactors: %v", err)
	}
	if got != f {
		t.Fatalf("DecodeFactors: want=%+v got=%+v", f, got)
	}
}
