package services

import (
	"context"
	"time"

	"contas/internal/core"
)

// BillStore is the bill side of the relational collaborator. Every
// operation is scoped to the owning user; lookups for rows that exist
// but belong to someone else return core.ErrNotFound.
type BillStore interface {
	CreateBill(ctx context.Context, bill core.Bill) (core.Bill, error)
	UpdateBill(ctx context.Context, bill core.Bill) error
	DeleteBill(ctx context.Context, userID, billID int64) error
	GetBill(ctx context.Context, userID, billID int64) (core.Bill, error)
	// ListBills returns the user's bills; activeOnly restricts to bills
	// still accruing.
	ListBills(ctx context.Context, userID int64, activeOnly bool) ([]core.Bill, error)
	// CategoryNames maps category ids to display names for the user.
	CategoryNames(ctx context.Context, userID int64) (map[int64]string, error)
}

// PaymentStore is the payment side of the relational collaborator.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment core.Payment) (core.Payment, error)
	DeletePayment(ctx context.Context, userID, paymentID int64) error
	GetPayment(ctx context.Context, userID, paymentID int64) (core.Payment, error)
	ListPayments(ctx context.Context, userID, billID int64) ([]core.Payment, error)
	// PaymentDatesByBill returns every payment date the user has
	// recorded, grouped by bill. Feed for the accrual calculator.
	PaymentDatesByBill(ctx context.Context, userID int64) (map[int64][]time.Time, error)
	// PaidByBillInWindow sums payment amounts per bill for dates in
	// [start, end] inclusive.
	PaidByBillInWindow(ctx context.Context, userID int64, start, end time.Time) (map[int64]core.Money, error)
	// SumPaymentsInWindow sums all payment amounts for dates in
	// [start, end] inclusive, across every bill.
	SumPaymentsInWindow(ctx context.Context, userID int64, start, end time.Time) (core.Money, error)
	// CategoryTotals sums payment amounts per bill category for dates in
	// [start, end] inclusive. Categories without payments are omitted.
	CategoryTotals(ctx context.Context, userID int64, start, end time.Time) ([]core.CategoryTotal, error)
}

// EventPublisher notifies downstream consumers about payment writes.
// Publishing is best effort; failures never roll back the write.
type EventPublisher interface {
	PublishPaymentCreated(ctx context.Context, paymentID, userID int64) error
	PublishPaymentDeleted(ctx context.Context, paymentID, userID int64) error
}
