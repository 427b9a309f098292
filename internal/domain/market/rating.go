package market

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinStars = 1
	MaxStars = 5
)

// Rating is a vendor's star rating of a supplier, usually tied to an order.
type Rating struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID uuid.UUID  `gorm:"type:uuid;not null;index;column:supplier_id" json:"supplier_id"`
	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index;column:vendor_id" json:"vendor_id"`
	OrderID    *uuid.UUID `gorm:"type:uuid;column:order_id" json:"order_id,omitempty"`
	Stars      float64    `gorm:"not null;column:rating" json:"rating"`
	Comment    string     `gorm:"column:comment" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Rating) TableName() string { return "supplier_rating" }

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
