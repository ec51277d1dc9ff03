package service

import (
	"context"
	"errors"
	"testing"
	"time"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/agrihub/fieldbill/internal/clock"
)

func startPendingBill(t *testing.T, svc billdomain.Service, fake *clock.FakeClock) string {
	t.Helper()

	ctx := context.Background()
	started, err := svc.Start(ctx, billdomain.StartRequest{OwnerID: "farm-7", ResourceName: "plowing"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	fake.Advance(time.Hour)
	if _, err := svc.Stop(ctx, billdomain.StopRequest{BillID: started.BillID}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	return started.BillID
}

func TestPayLifecycle(t *testing.T) {
	svc, db, fake, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()
	billID := startPendingBill(t, svc, fake)

	if err := svc.Pay(ctx, billID, "cash"); err != nil {
		t.Fatalf("pay: %v", err)
	}

	bill := findBill(t, db, billID)
	if bill.Status != billdomain.StatusCompleted {
		t.Fatalf("expected completed, got %s", bill.Status)
	}
	if bill.PaymentMethod != "cash" {
		t.Fatalf("expected payment method cash, got %q", bill.PaymentMethod)
	}

	if err := svc.Pay(ctx, billID, "card"); !errors.Is(err, billdomain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid on double pay, got %v", err)
	}
}

func TestPayValidation(t *testing.T) {
	svc, db, fake, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()
	billID := startPendingBill(t, svc, fake)

	if err := svc.Pay(ctx, billID, "  "); !errors.Is(err, billdomain.ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if err := svc.Pay(ctx, "not-a-number", "cash"); !errors.Is(err, billdomain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestPayRunningBillRejected(t *testing.T) {
	svc, db, _, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()

	started, err := svc.Start(ctx, billdomain.StartRequest{OwnerID: "farm-7", ResourceName: "plowing"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Pay(ctx, started.BillID, "cash"); !errors.Is(err, billdomain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid for a running bill, got %v", err)
	}
}

func TestUpdateCost(t *testing.T) {
	svc, db, fake, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()
	billID := startPendingBill(t, svc, fake)

	if err := svc.UpdateCost(ctx, billID, "42.75"); err != nil {
		t.Fatalf("update cost: %v", err)
	}

	bill := findBill(t, db, billID)
	if bill.Cost == nil || bill.Cost.StringFixed(2) != "42.75" {
		t.Fatalf("expected cost 42.75, got %v", bill.Cost)
	}

	if err := svc.UpdateCost(ctx, billID, "-1"); !errors.Is(err, billdomain.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	// Once paid the bill is settled; cost corrections go through edit.
	if err := svc.Pay(ctx, billID, "cash"); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if err := svc.UpdateCost(ctx, billID, "50"); !errors.Is(err, billdomain.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestEditOverwritesOnlyGivenFields(t *testing.T) {
	svc, db, fake, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()
	billID := startPendingBill(t, svc, fake)

	elapsed := "02:00:00"
	cost := "20"
	if err := svc.Edit(ctx, billdomain.EditRequest{
		BillID:      billID,
		ElapsedTime: &elapsed,
		Cost:        &cost,
	}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	bill := findBill(t, db, billID)
	if bill.ElapsedTime != "02:00:00" {
		t.Fatalf("expected elapsed 02:00:00, got %q", bill.ElapsedTime)
	}
	if bill.Cost == nil || bill.Cost.StringFixed(2) != "20.00" {
		t.Fatalf("expected cost 20.00, got %v", bill.Cost)
	}
	if bill.Status != billdomain.StatusPending {
		t.Fatalf("edit must not change status, got %s", bill.Status)
	}
}

func TestEditValidation(t *testing.T) {
	svc, db, fake, _ := setupBillService(t)
	seedResource(t, db, "plowing", "10")
	ctx := context.Background()
	billID := startPendingBill(t, svc, fake)

	if err := svc.Edit(ctx, billdomain.EditRequest{BillID: billID}); !errors.Is(err, billdomain.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}

	bad := "-5"
	if err := svc.Edit(ctx, billdomain.EditRequest{BillID: billID, Cost: &bad}); !errors.Is(err, billdomain.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	negCount := int64(-3)
	if err := svc.Edit(ctx, billdomain.EditRequest{BillID: billID, Count: &negCount}); !errors.Is(err, billdomain.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}

	elapsed := "01:00:00"
	missing := "123456789"
	if err := svc.Edit(ctx, billdomain.EditRequest{BillID: missing, ElapsedTime: &elapsed}); !errors.Is(err, billdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
