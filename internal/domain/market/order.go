package market

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a vendor's purchase of raw material from a supplier.
type Order struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID           uuid.UUID   `gorm:"type:uuid;not null;index;column:vendor_id" json:"vendor_id"`
	SupplierID         uuid.UUID   `gorm:"type:uuid;not null;index;column:supplier_id" json:"supplier_id"`
	Status             OrderStatus `gorm:"not null;index;column:status" json:"status"`
	TotalAmountPaise   int64       `gorm:"not null;default:0;column:total_amount_paise" json:"total_amount_paise"`
	ExpectedDeliveryAt *time.Time  `gorm:"column:expected_delivery_at" json:"expected_delivery_at,omitempty"`
	DeliveredAt        *time.Time  `gorm:"column:delivered_at" json:"delivered_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "purchase_order" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderStats is the order ledger's per-user summary.
type OrderStats struct {
	Total    int64                 `json:"total"`
	ByStatus map[OrderStatus]int64 `json:"by_status"`
	// Deliveries counts delivered orders with a recorded delivery time;
	// OnTimeDeliveries those delivered no later than expected.
	Deliveries       int64 `json:"deliveries"`
	OnTimeDeliveries int64 `json:"on_time_deliveries"`
}

func (s OrderStats) Delivered() int64 {
	if s.ByStatus == nil {
		return 0
	}
	return s.ByStatus[OrderStatusDelivered]
}
