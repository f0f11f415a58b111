// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for accrual period math.
// Each recurrence type (monthly, annual) has its own strategy that
// encapsulates period truncation, counting and keying.

package services

import (
	"fmt"
	"time"

	"contas/internal/core"
)

// PeriodStrategy is the strategy interface for one recurrence cycle.
// Implementations define what "one period" means for a bill.
type PeriodStrategy interface {
	// Truncate returns the first instant of the period containing t.
	Truncate(t time.Time) time.Time

	// Elapsed returns the number of whole periods between two truncated
	// period starts. The later period itself is not counted.
	Elapsed(start, ref time.Time) int

	// Key returns a stable identifier for t's period, used to count
	// distinct paid periods.
	Key(t time.Time) string
}

// MonthlyPeriods implements PeriodStrategy at calendar-month granularity.
type MonthlyPeriods struct{}

func (MonthlyPeriods) Truncate(t time.Time) time.Time {
	return core.TruncateToMonth(t)
}

func (MonthlyPeriods) Elapsed(start, ref time.Time) int {
	years := ref.Year() - start.Year()
	months := int(ref.Month()) - int(start.Month())
	return years*12 + months
}

func (MonthlyPeriods) Key(t time.Time) string {
	return t.Format("2006-01")
}

// AnnualPeriods implements PeriodStrategy at calendar-year granularity.
// Same algorithm as monthly accrual, different truncation unit.
type AnnualPeriods struct{}

func (AnnualPeriods) Truncate(t time.Time) time.Time {
	return core.TruncateToYear(t)
}

func (AnnualPeriods) Elapsed(start, ref time.Time) int {
	return ref.Year() - start.Year()
}

func (AnnualPeriods) Key(t time.Time) string {
	return t.Format("2006")
}

// periodStrategies maps recurrence types to their corresponding
// strategies.
var periodStrategies = map[core.RecurrenceTypes]PeriodStrategy{
	core.Monthly: MonthlyPeriods{},
	core.Annual:  AnnualPeriods{},
}

// GetPeriodStrategy returns the period strategy for a recurrence type.
// Returns an error if the recurrence type is not supported.
func GetPeriodStrategy(recurrence core.RecurrenceTypes) (PeriodStrategy, error) {
	strategy, ok := periodStrategies[recurrence]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence type: %s", recurrence)
	}
	return strategy, nil
}
