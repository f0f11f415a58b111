package core

import (
	"strings"
	"time"
)

const (
	Monthly RecurrenceTypes = "monthly"
	Annual  RecurrenceTypes = "annual"
)

const (
	MethodCash            PaymentMethod = "cash"
	MethodCredit          PaymentMethod = "credit"
	MethodDebit           PaymentMethod = "debit"
	MethodBankSlip        PaymentMethod = "bank-slip"
	MethodInstantTransfer PaymentMethod = "instant-transfer"
	MethodWireTransfer    PaymentMethod = "wire-transfer"
)

type (
	// RecurrenceTypes is the billing cycle of a recurring bill.
	RecurrenceTypes string

	// PaymentMethod is the closed set of accepted settlement methods.
	// Values are stored as-is and must round-trip exactly; display names
	// belong to the presentation boundary.
	PaymentMethod string

	// Bill is a recurring financial obligation owned by one user.
	Bill struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Description string
		BaseAmount  Money
		Recurrence  RecurrenceTypes
		FixedDay    int
		StartMonth  time.Time // truncated to the first day of the month
		Active      bool
	}

	// Payment is a single settlement recorded against a bill.
	Payment struct {
		ID       int64
		UserID   int64
		BillID   int64
		Method   PaymentMethod
		Amount   Money
		Date     time.Time
		Interest Money
		Penalty  Money
		Discount Money
		Notes    string
	}
)

// PaymentMethods lists every accepted method, in enumeration order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		MethodCash,
		MethodCredit,
		MethodDebit,
		MethodBankSlip,
		MethodInstantTransfer,
		MethodWireTransfer,
	}
}

// Valid reports whether m is one of the fixed enumeration values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCredit, MethodDebit, MethodBankSlip, MethodInstantTransfer, MethodWireTransfer:
		return true
	}
	return false
}

// Valid reports whether r is a supported recurrence type.
func (r RecurrenceTypes) Valid() bool {
	return r == Monthly || r == Annual
}

// TruncateToMonth returns the first instant of t's calendar month in UTC.
func TruncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// TruncateToYear returns the first instant of t's calendar year in UTC.
func TruncateToYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(b.Description) > 200 {
		return Invalid("description too long (max 200 characters)")
	}
	if b.BaseAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !b.Recurrence.Valid() {
		return Invalid("invalid recurrence type")
	}
	if b.FixedDay < 1 || b.FixedDay > 31 {
		return ErrInvalidDay
	}
	if b.StartMonth.IsZero() {
		return ErrMissingStartMonth
	}
	if b.CategoryID <= 0 {
		return Invalid("missing category")
	}
	return nil
}

func (p Payment) Validate() error {
	if p.BillID <= 0 {
		return Invalid("missing bill reference")
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return Invalid("missing payment date")
	}
	if p.Interest.Cents < 0 {
		return Invalid("invalid interest")
	}
	if p.Penalty.Cents < 0 {
		return Invalid("invalid penalty")
	}
	if p.Discount.Cents < 0 {
		return Invalid("invalid discount")
	}
	return nil
}
