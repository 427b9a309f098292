package market

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type PaymentLedger interface {
	StatsForUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (types.PaymentStats, error)
}

type paymentLedger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentLedger(db *gorm.DB, baseLog *logger.Logger) PaymentLedger {
	return &paymentLedger{db: db, log: baseLog.With("repo", "PaymentLedger")}
}

// StatsForUser counts completed payments and those paid on or before their due
// date. A completed payment missing either timestamp is never on time.
func (l *paymentLedger) StatsForUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (types.PaymentStats, error) {
	var stats types.PaymentStats
	if userID == uuid.Nil {
		return stats, nil
	}
	var row struct {
		Completed int64
		OnTime    int64
	}
	if err := dbc.Conn(l.db).
		Model(&types.Payment{}).
		Select(`COUNT(*) AS completed,
			COALESCE(SUM(CASE WHEN paid_at IS NOT NULL AND due_date IS NOT NULL AND paid_at <= due_date THEN 1 ELSE 0 END), 0) AS on_time`).
		Where(fmt.Sprintf("%s = ?", partyColumn(role)), userID).
		Where("status = ?", types.PaymentStatusCompleted).
		Scan(&row).Error; err != nil {
		return stats, err
	}
	stats.Completed = row.Completed
	stats.OnTimeCompleted = row.OnTime
	return stats, nil
}
