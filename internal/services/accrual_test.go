package services

import (
	"testing"
	"time"

	"contas/internal/core"
)

func monthlyBill(startYear int, startMonth time.Month, baseCents int64) core.Bill {
	return core.Bill{
		ID:          1,
		UserID:      1,
		CategoryID:  1,
		Description: "Rent",
		BaseAmount:  core.Money{Cents: baseCents},
		Recurrence:  core.Monthly,
		FixedDay:    5,
		StartMonth:  time.Date(startYear, startMonth, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}
}

func TestComputeAccrual_Monthly(t *testing.T) {
	tests := []struct {
		name          string
		bill          core.Bill
		payments      []time.Time
		ref           time.Time
		wantElapsed   int
		wantPaid      int
		wantOverdue   int64
		wantDueThis   bool
	}{
		{
			name:        "reference scenario: start 2024-01, one payment in February",
			bill:        monthlyBill(2024, time.January, 10000),
			payments:    []time.Time{time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
			ref:         time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    1,
			wantOverdue: 20000,
			wantDueThis: true,
		},
		{
			name:        "no payments ever accrue full overdue",
			bill:        monthlyBill(2024, time.January, 10000),
			ref:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    0,
			wantOverdue: 30000,
			wantDueThis: true,
		},
		{
			name:        "start month equals reference month",
			bill:        monthlyBill(2024, time.April, 10000),
			ref:         time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
			wantElapsed: 0,
			wantPaid:    0,
			wantOverdue: 0,
			wantDueThis: true,
		},
		{
			name:        "payment in reference month clears due but not prior overdue",
			bill:        monthlyBill(2024, time.January, 10000),
			payments:    []time.Time{time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
			ref:         time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    0,
			wantOverdue: 30000,
			wantDueThis: false,
		},
		{
			name: "every elapsed month paid means zero overdue",
			bill: monthlyBill(2024, time.January, 10000),
			payments: []time.Time{
				time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			},
			ref:         time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    3,
			wantOverdue: 0,
			wantDueThis: true,
		},
		{
			name: "two payments in the same month count one paid period",
			bill: monthlyBill(2024, time.January, 10000),
			payments: []time.Time{
				time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			},
			ref:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    1,
			wantOverdue: 20000,
			wantDueThis: true,
		},
		{
			name: "more paid periods than elapsed never goes negative",
			bill: monthlyBill(2024, time.March, 10000),
			payments: []time.Time{
				time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			},
			ref:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			wantElapsed: 1,
			wantPaid:    3,
			wantOverdue: 0,
			wantDueThis: true,
		},
		{
			name:        "start month after reference accrues nothing",
			bill:        monthlyBill(2024, time.June, 10000),
			ref:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			wantElapsed: 0,
			wantPaid:    0,
			wantOverdue: 0,
			wantDueThis: true,
		},
		{
			name:        "year boundary",
			bill:        monthlyBill(2023, time.November, 5000),
			payments:    []time.Time{time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)},
			ref:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantElapsed: 3,
			wantPaid:    1,
			wantOverdue: 10000,
			wantDueThis: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAccrual(tt.bill, tt.payments, tt.ref)
			if err != nil {
				t.Fatalf("ComputeAccrual() error: %v", err)
			}
			if got.PeriodsElapsed != tt.wantElapsed {
				t.Errorf("PeriodsElapsed = %d, want %d", got.PeriodsElapsed, tt.wantElapsed)
			}
			if got.PeriodsPaid != tt.wantPaid {
				t.Errorf("PeriodsPaid = %d, want %d", got.PeriodsPaid, tt.wantPaid)
			}
			if got.Overdue.Cents != tt.wantOverdue {
				t.Errorf("Overdue = %d, want %d", got.Overdue.Cents, tt.wantOverdue)
			}
			if got.DueThisPeriod != tt.wantDueThis {
				t.Errorf("DueThisPeriod = %v, want %v", got.DueThisPeriod, tt.wantDueThis)
			}
		})
	}
}

func TestComputeAccrual_Annual(t *testing.T) {
	bill := core.Bill{
		ID:          2,
		UserID:      1,
		CategoryID:  1,
		Description: "Insurance",
		BaseAmount:  core.Money{Cents: 120000},
		Recurrence:  core.Annual,
		FixedDay:    1,
		StartMonth:  time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	// Three whole years elapsed (2021-2023), one of them paid.
	got, err := ComputeAccrual(bill, []time.Time{
		time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC),
	}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ComputeAccrual() error: %v", err)
	}
	if got.PeriodsElapsed != 3 {
		t.Errorf("PeriodsElapsed = %d, want 3", got.PeriodsElapsed)
	}
	if got.PeriodsPaid != 1 {
		t.Errorf("PeriodsPaid = %d, want 1", got.PeriodsPaid)
	}
	if got.Overdue.Cents != 240000 {
		t.Errorf("Overdue = %d, want 240000", got.Overdue.Cents)
	}
	if !got.DueThisPeriod {
		t.Error("DueThisPeriod = false, want true (no payment in 2024)")
	}

	// Payment inside the reference year clears the current due.
	got, err = ComputeAccrual(bill, []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ComputeAccrual() error: %v", err)
	}
	if got.DueThisPeriod {
		t.Error("DueThisPeriod = true, want false (paid in 2024)")
	}
}

func TestComputeAccrual_DataIntegrity(t *testing.T) {
	bill := monthlyBill(2024, time.January, 10000)
	bill.StartMonth = time.Time{}
	if _, err := ComputeAccrual(bill, nil, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for bill without start month")
	}

	bill = monthlyBill(2024, time.January, 10000)
	bill.Recurrence = "weekly"
	if _, err := ComputeAccrual(bill, nil, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for unknown recurrence")
	}
}

func TestGetPeriodStrategy(t *testing.T) {
	if _, err := GetPeriodStrategy(core.Monthly); err != nil {
		t.Errorf("monthly strategy: %v", err)
	}
	if _, err := GetPeriodStrategy(core.Annual); err != nil {
		t.Errorf("annual strategy: %v", err)
	}
	if _, err := GetPeriodStrategy("daily"); err == nil {
		t.Error("expected error for unsupported recurrence")
	}
}
