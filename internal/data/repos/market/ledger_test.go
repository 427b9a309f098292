package market

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos/testutil"
	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
)

func TestOrderLedgerStatsForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	vendor := testutil.SeedUser(t, ctx, tx, types.RoleVendor)
	supplier := testutil.SeedUser(t, ctx, tx, types.RoleSupplier)
	other := testutil.SeedUser(t, ctx, tx, types.RoleSupplier)

	testutil.SeedOrder(t, ctx, tx, vendor.ID, supplier.ID, types.OrderStatusDelivered, false)
	testutil.SeedOrder(t, ctx, tx, vendor.ID, supplier.ID, types.OrderStatusDelivered, true)
	testutil.SeedOrder(t, ctx, tx, vendor.ID, supplier.ID, types.OrderStatusCancelled, false)
	testutil.SeedOrder(t, ctx, tx, vendor.ID, other.ID, types.OrderStatusPending, false)

	ledger := NewOrderLedger(db, testutil.Logger(t))

	vs, err := ledger.StatsForUser(dbc, vendor.ID, types.RoleVendor)
	if err != nil {
		t.Fatalf("StatsForUser(vendor): %v", err)
	}
	if vs.Total != 4 || vs.Delivered() != 2 || vs.ByStatus[types.OrderStatusPending] != 1 {
		t.Fatalf("vendor stats: %+v", vs)
	}

	ss, err := ledger.StatsForUser(dbc, supplier.ID, types.RoleSupplier)
	if err != nil {
		t.Fatalf("StatsForUser(supplier): %v", err)
	}
	if ss.Total != 3 || ss.Delivered() != 2 {
		t.Fatalf("supplier stats: %+v", ss)
	}
	if ss.Deliveries != 2 || ss.OnTimeDeliveries != 1 {
		t.Fatalf("supplier delivery timing: deliveries=%d onTime=%d", ss.Deliveries, ss.OnTimeDeliveries)
	}

	empty, err := ledger.StatsForUser(dbc, uuid.New(), types.RoleVendor)
	if err != nil {
		t.Fatalf("StatsForUser(unknown): %v", err)
	}
	if empty.Total != 0 || empty.Delivered() != 0 {
		t.Fatalf("unknown user stats: %+v", empty)
	}
}

func TestPaymentLedgerStatsForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	vendor := testutil.SeedUser(t, ctx, tx, types.RoleVendor)
	supplier := testutil.SeedUser(t, ctx, tx, types.RoleSupplier)
	order := testutil.SeedOrder(t, ctx, tx, vendor.ID, supplier.ID, types.OrderStatusDelivered, false)

	testutil.SeedPayment(t, ctx, tx, order, types.PaymentStatusCompleted, false)
	testutil.SeedPayment(t, ctx, tx, order, types.PaymentStatusCompleted, false)
	testutil.SeedPayment(t, ctx, tx, order, types.PaymentStatusCompleted, true)
	testutil.SeedPayment(t, ctx, tx, order, types.PaymentStatusFailed, false)

	// Completed without a due date never counts as on time.
	noDue := testutil.SeedPayment(t, ctx, tx, order, types.PaymentStatusCompleted, false)
	if err := tx.Model(&types.Payment{}).Where("id = ?", noDue.ID).Update("due_date", nil).Error; err != nil {
		t.Fatalf("clear due_date: %v", err)
	}

	ledger := NewPaymentLedger(db, testutil.Logger(t))
	stats, err := ledger.StatsForUser(dbc, vendor.ID, types.RoleVendor)
	if err != nil {
		t.Fatalf("StatsForUser: %v", err)
	}
	if stats.Completed != 4 || stats.OnTimeCompleted != 2 {
		t.Fatalf("vendor payment stats: %+v", stats)
	}

	sup, err := ledger.StatsForUser(dbc, supplier.ID, types.RoleSupplier)
	if err != nil {
		t.Fatalf("StatsForUser(supplier): %v", err)
	}
	if sup.Completed != 4 {
		t.Fatalf("supplier payment stats: %+v", sup)
	}
}

func TestRatingLedgerListForSupplier(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	vendor := testutil.SeedUser(t, ctx, tx, types.RoleVendor)
	supplier := testutil.SeedUser(t, ctx, tx, types.RoleSupplier)
	testutil.SeedRating(t, ctx, tx, supplier.ID, vendor.ID, 5)
	testutil.SeedRating(t, ctx, tx, supplier.ID, vendor.ID, 3)

	ledger := NewRatingLedger(db, testutil.Logger(t))
	got, err := ledger.ListForSupplier(dbc, supplier.ID)
	if err != nil {
		t.Fatalf("ListForSupplier: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListForSupplier: want=2 got=%d", len(got))
	}
	sum := 0.0
	for _, r := range got {
		sum += r.Stars
	}
	if sum != 8 {
		t.Fatalf("ListForSupplier: unexpected stars sum %v", sum)
	}

	none, err := ledger.ListForSupplier(dbc, vendor.ID)
	if err != nil {
		t.Fatalf("ListForSupplier(vendor): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ListForSupplier(vendor): expected empty, got %d", len(none))
	}
}
