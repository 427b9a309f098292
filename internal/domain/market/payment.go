package market

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID     `gorm:"type:uuid;not null;index;column:order_id" json:"order_id"`
	VendorID    uuid.UUID     `gorm:"type:uuid;not null;index;column:vendor_id" json:"vendor_id"`
	SupplierID  uuid.UUID     `gorm:"type:uuid;not null;index;column:supplier_id" json:"supplier_id"`
	Status      PaymentStatus `gorm:"not null;index;column:status" json:"status"`
	AmountPaise int64         `gorm:"not null;default:0;column:amount_paise" json:"amount_paise"`
	DueDate     *time.Time    `gorm:"column:due_date" json:"due_date,omitempty"`
	PaidAt      *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payment" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PaymentStats is the payment ledger's per-user summary. A completed payment
// is on time when it was paid no later than its due date.
type PaymentStats struct {
	Completed       int64 `json:"completed"`
	OnTimeCompleted int64 `json:"on_time_completed"`
}
