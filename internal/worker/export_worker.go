package worker

import (
	"context"
	"fmt"

	"contas/internal/amqp"
	"contas/internal/log"
	"contas/internal/services"
	"contas/internal/sheets"
)

// ExportWorker mirrors recorded payments into an external ledger. It
// reacts to payment events from the queue; the envelope carries only
// identifiers, so the full row is fetched from storage.
type ExportWorker struct {
	payments services.PaymentStore
	bills    services.BillStore
	ledger   sheets.PaymentLedgerWriter
	logger   *log.Logger
}

func NewExportWorker(payments services.PaymentStore, bills services.BillStore, ledger sheets.PaymentLedgerWriter, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		payments: payments,
		bills:    bills,
		ledger:   ledger,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMessage processes one payment event. Created payments are
// appended to the ledger; deleted payments are logged only, since the
// ledger is append-only.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.PaymentEventMessage) error {
	switch msg.Event {
	case amqp.EventPaymentCreated:
		return w.exportPayment(ctx, msg.UserID, msg.PaymentID)
	case amqp.EventPaymentDeleted:
		w.logger.InfoContext(ctx, "Payment deleted, ledger row kept",
			log.FieldPaymentID, msg.PaymentID, log.FieldUserID, msg.UserID)
		return nil
	default:
		w.logger.WarnContext(ctx, "Discarding unknown event", "event", msg.Event)
		return nil
	}
}

func (w *ExportWorker) exportPayment(ctx context.Context, userID, paymentID int64) error {
	payment, err := w.payments.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return fmt.Errorf("get payment %d: %w", paymentID, err)
	}

	bill, err := w.bills.GetBill(ctx, userID, payment.BillID)
	if err != nil {
		return fmt.Errorf("get bill %d: %w", payment.BillID, err)
	}

	names, err := w.bills.CategoryNames(ctx, userID)
	if err != nil {
		return fmt.Errorf("category names: %w", err)
	}

	ref, err := w.ledger.AppendPayment(ctx, sheets.LedgerEntry{
		PaymentID:   payment.ID,
		BillID:      bill.ID,
		Description: bill.Description,
		Category:    names[bill.CategoryID],
		Method:      string(payment.Method),
		AmountCents: payment.Amount.Cents,
		Date:        payment.Date.Format("2006-01-02"),
		Notes:       payment.Notes,
	})
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	w.logger.InfoContext(ctx, "Payment exported",
		log.FieldPaymentID, payment.ID,
		log.FieldBillID, bill.ID,
		log.FieldAmountCents, payment.Amount.Cents,
		log.FieldSheetsRef, ref)
	return nil
}
