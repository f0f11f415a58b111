package services

import (
	"context"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/storage"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := log.Default(log.ComponentApp)
	return NewDashboardService(store, store, logger), store
}

func seedBill(t *testing.T, store *storage.MemoryStore, userID, catID int64, desc string, baseCents int64, start time.Time, active bool) core.Bill {
	t.Helper()
	bill, err := store.CreateBill(context.Background(), core.Bill{
		UserID:      userID,
		CategoryID:  catID,
		Description: desc,
		BaseAmount:  core.Money{Cents: baseCents},
		Recurrence:  core.Monthly,
		FixedDay:    5,
		StartMonth:  start,
		Active:      active,
	})
	if err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return bill
}

func seedPayment(t *testing.T, store *storage.MemoryStore, userID, billID int64, cents int64, date time.Time) {
	t.Helper()
	_, err := store.CreatePayment(context.Background(), core.Payment{
		UserID: userID,
		BillID: billID,
		Method: core.MethodCash,
		Amount: core.Money{Cents: cents},
		Date:   date,
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestTotals_NoBills(t *testing.T) {
	svc, _ := newDashboardFixture(t)

	totals, err := svc.Totals(context.Background(), 42, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Totals() error: %v", err)
	}
	if totals.DueThisMonth.Cents != 0 || totals.PaidThisMonth.Cents != 0 ||
		totals.Overdue.Cents != 0 || totals.DueNextMonth.Cents != 0 {
		t.Errorf("expected all-zero aggregates, got %+v", totals)
	}
	if len(totals.CategoryTotals) != 0 {
		t.Errorf("expected no category rows, got %d", len(totals.CategoryTotals))
	}
}

func TestTotals(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	housing := store.SeedCategory(1, "Housing")
	utilities := store.SeedCategory(1, "Utilities")

	// Rent: started January, paid February and April.
	rent := seedBill(t, store, 1, housing, "Rent", 100000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	seedPayment(t, store, 1, rent.ID, 100000, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, rent.ID, 100000, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	// Power: started March, never paid.
	power := seedBill(t, store, 1, utilities, "Power", 20000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true)
	_ = power

	// Inactive bill must not contribute anywhere.
	seedBill(t, store, 1, housing, "Old gym", 5000, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false)

	// Another user's data must be invisible.
	otherCat := store.SeedCategory(2, "Housing")
	otherBill := seedBill(t, store, 2, otherCat, "Rent", 999999, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	seedPayment(t, store, 2, otherBill.ID, 999999, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	totals, err := svc.Totals(ctx, 1, ref)
	if err != nil {
		t.Fatalf("Totals() error: %v", err)
	}

	// Rent is paid in April; only Power is still due this month.
	if totals.DueThisMonth.Cents != 20000 {
		t.Errorf("DueThisMonth = %d, want 20000", totals.DueThisMonth.Cents)
	}
	// April payments: rent 1000.00.
	if totals.PaidThisMonth.Cents != 100000 {
		t.Errorf("PaidThisMonth = %d, want 100000", totals.PaidThisMonth.Cents)
	}
	// Rent: 3 elapsed (Jan-Mar), 1 paid -> 2000.00. Power: 1 elapsed
	// (Mar), 0 paid -> 200.00.
	if totals.Overdue.Cents != 220000 {
		t.Errorf("Overdue = %d, want 220000", totals.Overdue.Cents)
	}
	// Nothing is paid in May yet: both active bills are due next month.
	if totals.DueNextMonth.Cents != 120000 {
		t.Errorf("DueNextMonth = %d, want 120000", totals.DueNextMonth.Cents)
	}

	// Category breakdown: only categories with payments appear.
	if len(totals.CategoryTotals) != 1 {
		t.Fatalf("category rows = %d, want 1 (zero rows omitted)", len(totals.CategoryTotals))
	}
	if totals.CategoryTotals[0].CategoryID != housing || totals.CategoryTotals[0].Total.Cents != 200000 {
		t.Errorf("housing total = %+v, want 200000 cents", totals.CategoryTotals[0])
	}
	if len(totals.CategoryTotalsThisMonth) != 1 || totals.CategoryTotalsThisMonth[0].Total.Cents != 100000 {
		t.Errorf("month category rows = %+v, want single housing row of 100000", totals.CategoryTotalsThisMonth)
	}
	if totals.Anomalies != 0 {
		t.Errorf("Anomalies = %d, want 0", totals.Anomalies)
	}
}

func TestTotals_SkipsMalformedBill(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	cat := store.SeedCategory(1, "Housing")
	seedBill(t, store, 1, cat, "Rent", 100000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true)

	// A bill with an unsupported recurrence is a malformed row: it must
	// be skipped, not abort the dashboard.
	bad := seedBill(t, store, 1, cat, "Weird", 5000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	bad.Recurrence = "weekly"
	if err := store.UpdateBill(ctx, bad); err != nil {
		t.Fatalf("update bill: %v", err)
	}

	totals, err := svc.Totals(ctx, 1, ref)
	if err != nil {
		t.Fatalf("Totals() error: %v", err)
	}
	if totals.Anomalies != 1 {
		t.Errorf("Anomalies = %d, want 1", totals.Anomalies)
	}
	if totals.Overdue.Cents != 100000 {
		t.Errorf("Overdue = %d, want 100000 from the healthy bill only", totals.Overdue.Cents)
	}
}

func TestTotalPaid_Window(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	cat := store.SeedCategory(1, "Housing")
	bill := seedBill(t, store, 1, cat, "Rent", 100000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	seedPayment(t, store, 1, bill.ID, 10000, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, bill.ID, 20000, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, bill.ID, 40000, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, bill.ID, 80000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	// Inclusive on both ends.
	got, err := svc.TotalPaid(ctx, 1,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TotalPaid() error: %v", err)
	}
	if got.Cents != 60000 {
		t.Errorf("TotalPaid = %d, want 60000", got.Cents)
	}
}

func TestBillSummaries(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	housing := store.SeedCategory(1, "Housing")
	rent := seedBill(t, store, 1, housing, "Rent", 100000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	seedPayment(t, store, 1, rent.ID, 100000, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, rent.ID, 95000, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC))

	summaries, err := svc.BillSummaries(ctx, 1, ref)
	if err != nil {
		t.Fatalf("BillSummaries() error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summary count = %d, want 1", len(summaries))
	}

	s := summaries[0]
	if s.CategoryName != "Housing" {
		t.Errorf("CategoryName = %q, want Housing", s.CategoryName)
	}
	if s.PeriodsElapsed != 3 || s.PeriodsPaid != 1 {
		t.Errorf("periods = %d elapsed / %d paid, want 3/1", s.PeriodsElapsed, s.PeriodsPaid)
	}
	if s.OverdueAmount.Cents != 200000 {
		t.Errorf("OverdueAmount = %d, want 200000", s.OverdueAmount.Cents)
	}
	if s.PaidThisMonth.Cents != 95000 {
		t.Errorf("PaidThisMonth = %d, want 95000", s.PaidThisMonth.Cents)
	}
	if s.Status() != "overdue" {
		t.Errorf("Status = %q, want overdue", s.Status())
	}
}
