package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
	// RoleAdmin only appears in access tokens issued to operators and internal
	// callers; directory rows are always vendor or supplier.
	RoleAdmin Role = "admin"
)

// ParseRole accepts the two marketplace roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleVendor, RoleSupplier:
		return Role(s), true
	default:
		return "", false
	}
}

// User is the directory entry owned by the registration service. Only the
// fields the trust engine reads are mapped here.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName    string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName     string    `gorm:"not null;column:last_name" json:"last_name"`
	BusinessName string    `gorm:"column:business_name" json:"business_name"`
	Phone        string    `gorm:"column:phone" json:"-"`
	City         string    `gorm:"column:city" json:"city"`
	Role         Role      `gorm:"not null;index;column:role" json:"role"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "app_user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
