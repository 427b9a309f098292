package trust

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinScore  = 0.0
	MaxScore  = 100.0
	SeedScore = 50.0
)

var ErrHistoryImmutable = errors.New("trust score history is append-only")

// Factors are the named sub-scores behind a trust score. PricingCompetitiveness,
// OrderConsistency and PlatformEngagement are reserved: stored and returned but
// never derived by recalculation.
type Factors struct {
	OnTimeDelivery         float64 `gorm:"column:on_time_delivery;not null;default:0" json:"onTimeDelivery"`
	CustomerRating         float64 `gorm:"column:customer_rating;not null;default:0" json:"customerRating"`
	PricingCompetitiveness float64 `gorm:"column:pricing_competitiveness;not null;default:0" json:"pricingCompetitiveness"`
	OrderFulfillment       float64 `gorm:"column:order_fulfillment;not null;default:0" json:"orderFulfillment"`
	PaymentTimeliness      float64 `gorm:"column:payment_timeliness;not null;default:0" json:"paymentTimeliness"`
	OrderConsistency       float64 `gorm:"column:order_consistency;not null;default:0" json:"orderConsistency"`
	PlatformEngagement     float64 `gorm:"column:platform_engagement;not null;default:0" json:"platformEngagement"`
}

// TrustScore is the current-state projection, one row per user.
type TrustScore struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"userId"`
	CurrentScore float64   `gorm:"not null;column:current_score" json:"currentScore"`
	Factors      Factors   `gorm:"embedded" json:"factors"`
	LastUpdated  time.Time `gorm:"not null;column:last_updated" json:"lastUpdated"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

func (TrustScore) TableName() string { return "trust_score" }

// TrustScoreHistory is one recompute event. Rows are never updated or deleted.
type TrustScoreHistory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_trust_score_history_user_ts,priority:1;column:user_id" json:"userId"`
	Score     float64        `gorm:"not null;column:score" json:"score"`
	Factors   datatypes.JSON `gorm:"column:factors" json:"factors"`
	Reason    string         `gorm:"column:reason" json:"reason"`
	Timestamp time.Time      `gorm:"not null;index:idx_trust_score_history_user_ts,priority:2;column:timestamp" json:"timestamp"`
}

func (TrustScoreHistory) TableName() string { return "trust_score_history" }

func (h *TrustScoreHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (h *TrustScoreHistory) BeforeUpdate(tx *gorm.DB) error { return ErrHistoryImmutable }

func (h *TrustScoreHistory) BeforeDelete(tx *gorm.DB) error { return ErrHistoryImmutable }

// SnapshotFactors serializes factors for a history row.
func SnapshotFactors(f Factors) (datatypes.JSON, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeFactors is the inverse of SnapshotFactors.
func (h *TrustScoreHistory) DecodeFactors() (Factors, error) {
	var f Factors
	if h == nil || len(h.Factors) == 0 {
		return f, nil
	}
	err := json.Unmarshal(h.Factors, &f)
	return f, err
}
