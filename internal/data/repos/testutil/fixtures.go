package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, role types.Role) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:        id,
		Email:     id.String() + "@vendorconnect.test",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedOrder inserts an order. deliveredLate only matters for delivered orders:
// it places DeliveredAt an hour after ExpectedDeliveryAt instead of an hour before.
func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, vendorID, supplierID uuid.UUID, status types.OrderStatus, deliveredLate bool) *types.Order {
	tb.Helper()
	expected := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	o := &types.Order{
		VendorID:           vendorID,
		SupplierID:         supplierID,
		Status:             status,
		TotalAmountPaise:   125000,
		ExpectedDeliveryAt: PtrTime(expected),
	}
	if status == types.OrderStatusDelivered {
		delivered := expected.Add(-time.Hour)
		if deliveredLate {
			delivered = expected.Add(time.Hour)
		}
		o.DeliveredAt = PtrTime(delivered)
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

// SeedPayment inserts a payment against order. paidLate places PaidAt a day
// after DueDate; otherwise it is paid a day early. Non-completed payments carry no PaidAt.
func SeedPayment(tb testing.TB, ctx context.Context, tx *gorm.DB, order *types.Order, status types.PaymentStatus, paidLate bool) *types.Payment {
	tb.Helper()
	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	p := &types.Payment{
		OrderID:     order.ID,
		VendorID:    order.VendorID,
		SupplierID:  order.SupplierID,
		Status:      status,
		AmountPaise: order.TotalAmountPaise,
		DueDate:     PtrTime(due),
	}
	if status == types.PaymentStatusCompleted {
		paid := due.Add(-24 * time.Hour)
		if paidLate {
			paid = due.Add(24 * time.Hour)
		}
		p.PaidAt = PtrTime(paid)
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed payment: %v", err)
	}
	return p
}

func SeedRating(tb testing.TB, ctx context.Context, tx *gorm.DB, supplierID, vendorID uuid.UUID, stars float64) *types.Rating {
	tb.Helper()
	r := &types.Rating{
		SupplierID: supplierID,
		VendorID:   vendorID,
		Stars:      stars,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rating: %v", err)
	}
	return r
}

func PtrTime(v time.Time) *time.Time { return &v }
