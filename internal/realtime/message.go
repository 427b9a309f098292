package realtime

import (
	"time"

	"github.com/google/uuid"
)

type Event string

const (
	EventTrustScoreUpdated Event = "trust_score.updated"
)

// Message is what goes over the bus. Channel is the recipient user's id so
// consumers can route without decoding Data.
type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data"`
}

// TrustScoreUpdated is the payload of EventTrustScoreUpdated.
type TrustScoreUpdated struct {
	UserID    uuid.UUID `json:"userId"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTrustScoreUpdated(userID uuid.UUID, score float64, reason string, at time.Time) Message {
	return Message{
		Channel: userID.String(),
		Event:   EventTrustScoreUpdated,
		Data: TrustScoreUpdated{
			UserID:    userID,
			Score:     score,
			Reason:    reason,
			Timestamp: at,
		},
	}
}
