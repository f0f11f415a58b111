package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"contas/internal/core"
	"contas/internal/log"
)

// DashboardService composes per-bill accrual results into the per-user
// summary figures. All five aggregates are independent read-only
// computations; they run concurrently under one errgroup.
type DashboardService struct {
	bills    BillStore
	payments PaymentStore
	logger   *log.Logger
}

func NewDashboardService(bills BillStore, payments PaymentStore, logger *log.Logger) *DashboardService {
	return &DashboardService{
		bills:    bills,
		payments: payments,
		logger:   logger.WithComponent(log.ComponentDashboard),
	}
}

// Totals computes the dashboard aggregate figures for a user at the
// reference date. A user with no bills gets all-zero totals. A
// malformed bill row does not abort the whole dashboard: the row is
// skipped, counted in Anomalies and logged.
func (s *DashboardService) Totals(ctx context.Context, userID int64, ref time.Time) (core.DashboardTotals, error) {
	var totals core.DashboardTotals

	monthStart := core.TruncateToMonth(ref)
	monthEnd := monthStart.AddDate(0, 1, -1)

	g, gctx := errgroup.WithContext(ctx)

	// Accrual-derived figures share one bills+dates fetch.
	g.Go(func() error {
		due, dueNext, overdue, anomalies, err := s.accrualFigures(gctx, userID, ref)
		if err != nil {
			return err
		}
		totals.DueThisMonth = due
		totals.DueNextMonth = dueNext
		totals.Overdue = overdue
		totals.Anomalies = anomalies
		return nil
	})

	g.Go(func() error {
		paid, err := s.payments.SumPaymentsInWindow(gctx, userID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("paid this month: %w", err)
		}
		totals.PaidThisMonth = paid
		return nil
	})

	g.Go(func() error {
		cats, err := s.payments.CategoryTotals(gctx, userID, allTimeStart, allTimeEnd)
		if err != nil {
			return fmt.Errorf("category totals: %w", err)
		}
		totals.CategoryTotals = cats
		return nil
	})

	g.Go(func() error {
		cats, err := s.payments.CategoryTotals(gctx, userID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("category totals this month: %w", err)
		}
		totals.CategoryTotalsThisMonth = cats
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.DashboardTotals{}, err
	}
	return totals, nil
}

// TotalPaid sums payment amounts across all of the user's bills for
// payment dates in [start, end] inclusive.
func (s *DashboardService) TotalPaid(ctx context.Context, userID int64, start, end time.Time) (core.Money, error) {
	return s.payments.SumPaymentsInWindow(ctx, userID, start, end)
}

// BillSummaries annotates every active bill with its derived accrual
// figures for the bill list view.
func (s *DashboardService) BillSummaries(ctx context.Context, userID int64, ref time.Time) ([]core.BillSummary, error) {
	bills, err := s.bills.ListBills(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	dates, err := s.payments.PaymentDatesByBill(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("payment dates: %w", err)
	}

	monthStart := core.TruncateToMonth(ref)
	monthEnd := monthStart.AddDate(0, 1, -1)
	paidByBill, err := s.payments.PaidByBillInWindow(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("paid by bill: %w", err)
	}

	names, err := s.bills.CategoryNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}

	summaries := make([]core.BillSummary, 0, len(bills))
	for _, bill := range bills {
		accrual, err := ComputeAccrual(bill, dates[bill.ID], ref)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping malformed bill row",
				log.FieldBillID, bill.ID, log.FieldUserID, userID, log.FieldError, err)
			continue
		}
		summaries = append(summaries, core.BillSummary{
			Bill:           bill,
			CategoryName:   names[bill.CategoryID],
			OverdueAmount:  accrual.Overdue,
			PaidThisMonth:  paidByBill[bill.ID],
			PeriodsElapsed: accrual.PeriodsElapsed,
			PeriodsPaid:    accrual.PeriodsPaid,
		})
	}
	return summaries, nil
}

// accrualFigures computes due-this-month, due-next-month and overdue
// from one pass over the user's active bills and payment dates.
func (s *DashboardService) accrualFigures(ctx context.Context, userID int64, ref time.Time) (due, dueNext, overdue core.Money, anomalies int, err error) {
	bills, err := s.bills.ListBills(ctx, userID, true)
	if err != nil {
		return due, dueNext, overdue, 0, fmt.Errorf("list active bills: %w", err)
	}
	dates, err := s.payments.PaymentDatesByBill(ctx, userID)
	if err != nil {
		return due, dueNext, overdue, 0, fmt.Errorf("payment dates: %w", err)
	}

	nextMonth := core.TruncateToMonth(ref).AddDate(0, 1, 0)

	for _, bill := range bills {
		current, cerr := ComputeAccrual(bill, dates[bill.ID], ref)
		if cerr != nil {
			anomalies++
			s.logger.WarnContext(ctx, "Skipping malformed bill row",
				log.FieldBillID, bill.ID, log.FieldUserID, userID, log.FieldError, cerr)
			continue
		}
		if current.DueThisPeriod {
			due.Cents += bill.BaseAmount.Cents
		}
		overdue.Cents += current.Overdue.Cents

		next, cerr := ComputeAccrual(bill, dates[bill.ID], nextMonth)
		if cerr == nil && next.DueThisPeriod {
			dueNext.Cents += bill.BaseAmount.Cents
		}
	}
	return due, dueNext, overdue, anomalies, nil
}

// Window bounds for the all-time category breakdown, mirroring the
// sentinel dates the storage queries use.
var (
	allTimeStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	allTimeEnd   = time.Date(3500, 12, 31, 0, 0, 0, 0, time.UTC)
)
