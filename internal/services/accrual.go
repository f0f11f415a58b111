package services

import (
	"fmt"
	"time"

	"contas/internal/core"
)

// Accrual is the derived payment state of one bill at a reference date.
//
// The boundary rule is deliberately uniform: PeriodsElapsed counts whole
// periods from the bill's start period up to, and excluding, the
// reference period, so the still-open period never accrues overdue.
// PeriodsPaid counts distinct periods with at least one payment strictly
// before the reference period. A payment inside the reference period
// only clears DueThisPeriod.
type Accrual struct {
	PeriodsElapsed int
	PeriodsPaid    int
	Overdue        core.Money
	DueThisPeriod  bool
}

// ComputeAccrual derives the accrual state of a bill from its payment
// dates at the given reference date. It never fails for a valid bill; a
// bill without a start month or with an unknown recurrence is a
// data-integrity problem that should have been rejected at write time
// and is reported as an error here so aggregators can skip the row.
func ComputeAccrual(bill core.Bill, paymentDates []time.Time, ref time.Time) (Accrual, error) {
	if bill.StartMonth.IsZero() {
		return Accrual{}, fmt.Errorf("bill %d: %w", bill.ID, core.ErrMissingStartMonth)
	}
	strategy, err := GetPeriodStrategy(bill.Recurrence)
	if err != nil {
		return Accrual{}, fmt.Errorf("bill %d: %w", bill.ID, err)
	}

	start := strategy.Truncate(bill.StartMonth)
	refPeriod := strategy.Truncate(ref)
	refKey := strategy.Key(refPeriod)

	elapsed := strategy.Elapsed(start, refPeriod)
	if elapsed < 0 {
		// Start month after the reference date: nothing accrued yet.
		elapsed = 0
	}

	paidPeriods := make(map[string]struct{})
	paidThisPeriod := false
	for _, d := range paymentDates {
		key := strategy.Key(strategy.Truncate(d))
		if key == refKey {
			paidThisPeriod = true
			continue
		}
		if strategy.Truncate(d).Before(refPeriod) {
			paidPeriods[key] = struct{}{}
		}
	}

	unpaid := elapsed - len(paidPeriods)
	if unpaid < 0 {
		unpaid = 0
	}

	return Accrual{
		PeriodsElapsed: elapsed,
		PeriodsPaid:    len(paidPeriods),
		Overdue:        core.Money{Cents: int64(unpaid) * bill.BaseAmount.Cents},
		DueThisPeriod:  !paidThisPeriod,
	}, nil
}
