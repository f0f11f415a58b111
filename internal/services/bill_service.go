package services

import (
	"context"
	"errors"
	"fmt"

	"contas/internal/core"
	"contas/internal/log"
)

// BillService covers the thin bill CRUD around the accrual engine.
// Bills are mutated only through full-record update or delete, always
// scoped to the owning user.
type BillService struct {
	bills  BillStore
	logger *log.Logger
}

func NewBillService(bills BillStore, logger *log.Logger) *BillService {
	return &BillService{
		bills:  bills,
		logger: logger.WithComponent(log.ComponentBill),
	}
}

// CreateBill validates and persists a new bill for the user. The start
// month is truncated to month granularity before the write so accrual
// math never sees partial months.
func (s *BillService) CreateBill(ctx context.Context, bill core.Bill) (core.Bill, error) {
	bill.StartMonth = core.TruncateToMonth(bill.StartMonth)
	if bill.Recurrence == "" {
		bill.Recurrence = core.Monthly
	}
	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}

	created, err := s.bills.CreateBill(ctx, bill)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	s.logger.InfoContext(ctx, "Bill created",
		log.FieldBillID, created.ID,
		log.FieldUserID, created.UserID,
		log.FieldAmountCents, created.BaseAmount.Cents)
	return created, nil
}

// UpdateBill replaces a bill the user owns with the given record.
func (s *BillService) UpdateBill(ctx context.Context, bill core.Bill) error {
	bill.StartMonth = core.TruncateToMonth(bill.StartMonth)
	if err := bill.Validate(); err != nil {
		return err
	}
	if err := s.bills.UpdateBill(ctx, bill); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("update bill %d: %w", bill.ID, err)
	}
	s.logger.InfoContext(ctx, "Bill updated", log.FieldBillID, bill.ID, log.FieldUserID, bill.UserID)
	return nil
}

// DeleteBill removes a bill the user owns. Bills with recorded payments
// are protected by the storage layer's restrict semantics.
func (s *BillService) DeleteBill(ctx context.Context, userID, billID int64) error {
	if err := s.bills.DeleteBill(ctx, userID, billID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("delete bill %d: %w", billID, err)
	}
	s.logger.InfoContext(ctx, "Bill deleted", log.FieldBillID, billID, log.FieldUserID, userID)
	return nil
}

// GetBill fetches a single bill the user owns.
func (s *BillService) GetBill(ctx context.Context, userID, billID int64) (core.Bill, error) {
	bill, err := s.bills.GetBill(ctx, userID, billID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Bill{}, core.ErrNotFound
		}
		return core.Bill{}, fmt.Errorf("get bill %d: %w", billID, err)
	}
	return bill, nil
}
