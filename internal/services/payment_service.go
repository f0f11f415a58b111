package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/core"
	"contas/internal/log"
)

// Payment payload fields accepted on create. Anything else is rejected
// before any other validation runs.
var (
	paymentRequiredFields  = []string{"bill_id", "method", "amount", "date"}
	paymentPermittedFields = map[string]struct{}{
		"bill_id": {}, "method": {}, "amount": {}, "date": {},
		"interest": {}, "penalty": {}, "discount": {}, "notes": {},
	}
)

// PaymentService gates payment writes and serves payment reads. The
// whole create path (validate, look up the referenced bill, normalize,
// persist) is one logical unit: any rejection aborts before the write.
type PaymentService struct {
	payments PaymentStore
	bills    BillStore
	events   EventPublisher
	margin   decimal.Decimal
	logger   *log.Logger
}

// PaymentWithStatus is a payment annotated with its classification
// against the owning bill's base amount.
type PaymentWithStatus struct {
	core.Payment
	Status core.PaymentStatus
}

func NewPaymentService(payments PaymentStore, bills BillStore, events EventPublisher, margin decimal.Decimal, logger *log.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		bills:    bills,
		events:   events,
		margin:   margin,
		logger:   logger.WithComponent(log.ComponentPayment),
	}
}

// CreatePayment validates a raw payment payload and persists it for the
// given user. Rules apply in order, each a hard rejection with a
// specific reason; nothing is written unless every rule passes.
func (s *PaymentService) CreatePayment(ctx context.Context, userID int64, payload map[string]any) (core.Payment, error) {
	// 1. Unknown fields outside the permitted set.
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := paymentPermittedFields[k]; !ok {
			return core.Payment{}, core.Invalid("unexpected field: " + k)
		}
	}

	// 2. Required fields present.
	for _, f := range paymentRequiredFields {
		if _, ok := payload[f]; !ok {
			return core.Payment{}, core.Invalid("missing required field: " + f)
		}
	}

	billID, err := parseID(payload["bill_id"])
	if err != nil {
		return core.Payment{}, core.Invalid("invalid bill_id")
	}

	// 3. Referenced bill must exist and belong to the requesting user.
	bill, err := s.bills.GetBill(ctx, userID, billID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Payment{}, core.ErrNotFound
		}
		return core.Payment{}, fmt.Errorf("lookup bill %d: %w", billID, err)
	}

	// 4. Normalize monetary fields; optional ones default to zero.
	amount, err := core.NormalizeAmount(payload["amount"])
	if err != nil {
		return core.Payment{}, core.Invalid("invalid amount")
	}
	interest, err := normalizeOptional(payload, "interest")
	if err != nil {
		return core.Payment{}, core.Invalid("invalid interest")
	}
	penalty, err := normalizeOptional(payload, "penalty")
	if err != nil {
		return core.Payment{}, core.Invalid("invalid penalty")
	}
	discount, err := normalizeOptional(payload, "discount")
	if err != nil {
		return core.Payment{}, core.Invalid("invalid discount")
	}

	// 5. Range checks.
	if amount.Cents <= 0 {
		return core.Payment{}, core.Invalid("amount must be positive")
	}
	if interest.Cents < 0 {
		return core.Payment{}, core.Invalid("interest must not be negative")
	}
	if penalty.Cents < 0 {
		return core.Payment{}, core.Invalid("penalty must not be negative")
	}
	if discount.Cents < 0 {
		return core.Payment{}, core.Invalid("discount must not be negative")
	}

	// 6. Method must be one of the fixed enumeration values.
	method := core.PaymentMethod(stringField(payload, "method"))
	if !method.Valid() {
		return core.Payment{}, core.Invalid("invalid payment method")
	}

	date, err := time.Parse("2006-01-02", stringField(payload, "date"))
	if err != nil {
		return core.Payment{}, core.Invalid("invalid date, expected YYYY-MM-DD")
	}

	payment := core.Payment{
		UserID:   userID,
		BillID:   bill.ID,
		Method:   method,
		Amount:   amount,
		Date:     date,
		Interest: interest,
		Penalty:  penalty,
		Discount: discount,
		Notes:    strings.TrimSpace(stringField(payload, "notes")),
	}
	if err := payment.Validate(); err != nil {
		return core.Payment{}, err
	}

	created, err := s.payments.CreatePayment(ctx, payment)
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	s.logger.InfoContext(ctx, "Payment created",
		log.FieldPaymentID, created.ID,
		log.FieldBillID, created.BillID,
		log.FieldUserID, userID,
		log.FieldAmountCents, created.Amount.Cents,
		"method", string(created.Method))

	if err := s.events.PublishPaymentCreated(ctx, created.ID, userID); err != nil {
		// The payment is already persisted; export catches up later.
		s.logger.ErrorContext(ctx, "Failed to publish payment created event",
			log.FieldPaymentID, created.ID, log.FieldError, err)
	}

	return created, nil
}

// DeletePayment removes a payment owned by the user. Deleting someone
// else's payment reports not found.
func (s *PaymentService) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	if err := s.payments.DeletePayment(ctx, userID, paymentID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("delete payment %d: %w", paymentID, err)
	}

	s.logger.InfoContext(ctx, "Payment deleted",
		log.FieldPaymentID, paymentID, log.FieldUserID, userID)

	if err := s.events.PublishPaymentDeleted(ctx, paymentID, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish payment deleted event",
			log.FieldPaymentID, paymentID, log.FieldError, err)
	}
	return nil
}

// ListPayments returns the payments recorded against one of the user's
// bills, each classified against the bill's base amount.
func (s *PaymentService) ListPayments(ctx context.Context, userID, billID int64) ([]PaymentWithStatus, error) {
	bill, err := s.bills.GetBill(ctx, userID, billID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("lookup bill %d: %w", billID, err)
	}

	payments, err := s.payments.ListPayments(ctx, userID, billID)
	if err != nil {
		return nil, fmt.Errorf("list payments for bill %d: %w", billID, err)
	}

	out := make([]PaymentWithStatus, len(payments))
	for i, p := range payments {
		out[i] = PaymentWithStatus{
			Payment: p,
			Status:  core.Classify(p.Amount, bill.BaseAmount, s.margin),
		}
	}
	return out, nil
}

func normalizeOptional(payload map[string]any, field string) (core.Money, error) {
	v, ok := payload[field]
	if !ok || v == nil {
		return core.Money{}, nil
	}
	return core.NormalizeAmount(v)
}

func stringField(payload map[string]any, field string) string {
	if s, ok := payload[field].(string); ok {
		return s
	}
	return ""
}

func parseID(v any) (int64, error) {
	switch val := v.(type) {
	case json.Number:
		id, err := val.Int64()
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("not a positive integer")
		}
		return id, nil
	case float64:
		id := int64(val)
		if float64(id) != val || id <= 0 {
			return 0, fmt.Errorf("not a positive integer")
		}
		return id, nil
	case int64:
		if val <= 0 {
			return 0, fmt.Errorf("not a positive integer")
		}
		return val, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("not a positive integer")
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}
