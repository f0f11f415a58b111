package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/storage"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *storage.MemoryStore, core.Bill) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := log.Default(log.ComponentApp)
	svc := NewPaymentService(store, store, NopPublisher{}, core.DefaultAcceptableMargin, logger)

	catID := store.SeedCategory(1, "Housing")
	bill, err := store.CreateBill(context.Background(), core.Bill{
		UserID:      1,
		CategoryID:  catID,
		Description: "Rent",
		BaseAmount:  core.Money{Cents: 150000},
		Recurrence:  core.Monthly,
		FixedDay:    5,
		StartMonth:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	if err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return svc, store, bill
}

func validPayload(billID int64) map[string]any {
	return map[string]any{
		"bill_id": float64(billID),
		"method":  "instant-transfer",
		"amount":  "1.500,00",
		"date":    "2024-02-10",
	}
}

func TestCreatePayment(t *testing.T) {
	svc, _, bill := newPaymentFixture(t)
	ctx := context.Background()

	created, err := svc.CreatePayment(ctx, 1, validPayload(bill.ID))
	if err != nil {
		t.Fatalf("CreatePayment() error: %v", err)
	}
	if created.ID == 0 {
		t.Error("created payment has no id")
	}
	if created.Amount.Cents != 150000 {
		t.Errorf("amount = %d, want 150000", created.Amount.Cents)
	}
	if created.Method != core.MethodInstantTransfer {
		t.Errorf("method = %q, want instant-transfer", created.Method)
	}
	if created.Interest.Cents != 0 || created.Penalty.Cents != 0 || created.Discount.Cents != 0 {
		t.Error("optional amounts should default to zero")
	}
}

func TestCreatePayment_Rejections(t *testing.T) {
	svc, store, bill := newPaymentFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "unknown field", mutate: func(p map[string]any) { p["surcharge"] = "10" }},
		{name: "missing method", mutate: func(p map[string]any) { delete(p, "method") }},
		{name: "missing amount", mutate: func(p map[string]any) { delete(p, "amount") }},
		{name: "missing date", mutate: func(p map[string]any) { delete(p, "date") }},
		{name: "unparseable amount", mutate: func(p map[string]any) { p["amount"] = "abc" }},
		{name: "unknown method", mutate: func(p map[string]any) { p["method"] = "check" }},
		{name: "negative interest", mutate: func(p map[string]any) { p["interest"] = -5.0 }},
		{name: "bad date format", mutate: func(p map[string]any) { p["date"] = "10/02/2024" }},
		{name: "bad bill id", mutate: func(p map[string]any) { p["bill_id"] = "zero" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload(bill.ID)
			tt.mutate(payload)
			if _, err := svc.CreatePayment(ctx, 1, payload); !core.IsValidation(err) {
				t.Errorf("CreatePayment() error = %v, want validation error", err)
			}
		})
	}

	// Nothing may have been written by any rejected attempt.
	payments, err := store.ListPayments(ctx, 1, bill.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("rejected creates persisted %d payments, want 0", len(payments))
	}
}

func TestCreatePayment_ForeignBillIsNotFound(t *testing.T) {
	svc, store, bill := newPaymentFixture(t)
	ctx := context.Background()

	// User 2 references user 1's bill.
	_, err := svc.CreatePayment(ctx, 2, validPayload(bill.ID))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("CreatePayment() error = %v, want ErrNotFound", err)
	}

	payments, err := store.ListPayments(ctx, 1, bill.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("cross-user create persisted %d payments, want 0", len(payments))
	}
}

func TestDeletePayment_OwnerScoped(t *testing.T) {
	svc, _, bill := newPaymentFixture(t)
	ctx := context.Background()

	created, err := svc.CreatePayment(ctx, 1, validPayload(bill.ID))
	if err != nil {
		t.Fatalf("CreatePayment() error: %v", err)
	}

	// Another user cannot delete it.
	if err := svc.DeletePayment(ctx, 2, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign delete error = %v, want ErrNotFound", err)
	}

	// Still retrievable by its true owner.
	payments, err := svc.ListPayments(ctx, 1, bill.ID)
	if err != nil {
		t.Fatalf("ListPayments() error: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payment count = %d, want 1", len(payments))
	}

	// The owner can delete it.
	if err := svc.DeletePayment(ctx, 1, created.ID); err != nil {
		t.Fatalf("owner delete error: %v", err)
	}
	payments, _ = svc.ListPayments(ctx, 1, bill.ID)
	if len(payments) != 0 {
		t.Errorf("payment count after delete = %d, want 0", len(payments))
	}
}

func TestListPayments_Classification(t *testing.T) {
	svc, _, bill := newPaymentFixture(t)
	ctx := context.Background()

	// Base is 1500.00, margin 0.25: under 375.00 is underpaid, over
	// 1875.00 is overpaid.
	for _, amount := range []string{"300,00", "1.500,00", "1.900,00"} {
		payload := validPayload(bill.ID)
		payload["amount"] = amount
		if _, err := svc.CreatePayment(ctx, 1, payload); err != nil {
			t.Fatalf("CreatePayment(%s) error: %v", amount, err)
		}
	}

	payments, err := svc.ListPayments(ctx, 1, bill.ID)
	if err != nil {
		t.Fatalf("ListPayments() error: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("payment count = %d, want 3", len(payments))
	}

	want := map[int64]core.PaymentStatus{
		30000:  core.StatusUnderpaid,
		150000: core.StatusNormal,
		190000: core.StatusOverpaid,
	}
	for _, p := range payments {
		if p.Status != want[p.Amount.Cents] {
			t.Errorf("status for %d cents = %v, want %v", p.Amount.Cents, p.Status, want[p.Amount.Cents])
		}
	}
}
