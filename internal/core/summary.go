package core

// CategoryTotal is the sum of payment amounts grouped by bill category.
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Total      Money
}

// DashboardTotals are the per-user aggregate figures shown on the
// dashboard. Anomalies counts bill rows skipped during aggregation.
type DashboardTotals struct {
	DueThisMonth            Money
	PaidThisMonth           Money
	Overdue                 Money
	DueNextMonth            Money
	CategoryTotals          []CategoryTotal
	CategoryTotalsThisMonth []CategoryTotal
	Anomalies               int
}

// BillSummary is a bill annotated with derived accrual figures for the
// bill list view.
type BillSummary struct {
	Bill
	CategoryName   string
	OverdueAmount  Money
	PaidThisMonth  Money
	PeriodsElapsed int
	PeriodsPaid    int
}

// Status derives the display status from the summary's figures: any
// overdue amount wins, then a payment in the current period, then
// pending.
func (s BillSummary) Status() string {
	switch {
	case s.OverdueAmount.Cents > 0:
		return "overdue"
	case s.PaidThisMonth.Cents > 0:
		return "paid"
	default:
		return "pending"
	}
}
