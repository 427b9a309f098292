package market

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

// OrderLedger summarizes a user's orders. Vendors are matched on vendor_id,
// everyone else on supplier_id.
type OrderLedger interface {
	StatsForUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (types.OrderStats, error)
}

type orderLedger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderLedger(db *gorm.DB, baseLog *logger.Logger) OrderLedger {
	return &orderLedger{db: db, log: baseLog.With("repo", "OrderLedger")}
}

func partyColumn(role types.Role) string {
	if role == types.RoleVendor {
		return "vendor_id"
	}
	return "supplier_id"
}

func (l *orderLedger) StatsForUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (types.OrderStats, error) {
	stats := types.OrderStats{ByStatus: map[types.OrderStatus]int64{}}
	if userID == uuid.Nil {
		return stats, nil
	}
	col := partyColumn(role)

	type statusCount struct {
		Status types.OrderStatus
		N      int64
	}
	var rows []statusCount
	if err := dbc.Conn(l.db).
		Model(&types.Order{}).
		Select("status, COUNT(*) AS n").
		Where(fmt.Sprintf("%s = ?", col), userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.N
		stats.Total += r.N
	}
	if stats.Delivered() == 0 {
		return stats, nil
	}

	var timing struct {
		Deliveries int64
		OnTime     int64
	}
	if err := dbc.Conn(l.db).
		Model(&types.Order{}).
		Select(`COUNT(*) AS deliveries,
			COALESCE(SUM(CASE WHEN expected_delivery_at IS NOT NULL AND delivered_at <= expected_delivery_at THEN 1 ELSE 0 END), 0) AS on_time`).
		Where(fmt.Sprintf("%s = ?", col), userID).
		Where("status = ? AND delivered_at IS NOT NULL", types.OrderStatusDelivered).
		Scan(&timing).Error; err != nil {
		return stats, err
	}
	stats.Deliveries = timing.Deliveries
	stats.OnTimeDeliveries = timing.OnTime
	return stats, nil
}
