package trust

// Tier is a coarse label for a 0-100 score shown next to leaderboard entries.
type Tier string

const (
	TierNew         Tier = "new"
	TierEmerging    Tier = "emerging"
	TierEstablished Tier = "established"
	TierTrusted     Tier = "trusted"
	TierElite       Tier = "elite"
)

func TierFor(score float64) Tier {
	switch {
	case score >= 80:
		return TierElite
	case score >= 60:
		return TierTrusted
	case score >= 40:
		return TierEstablished
	case score >= 20:
		return TierEmerging
	default:
		return TierNew
	}
}

// RankingEntry is one leaderboard row; Rank is 1-based.
type RankingEntry struct {
	Rank int  `json:"rank"`
	Tier Tier `json:"tier"`
	TrustScore
}
