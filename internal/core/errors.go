package core

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrEmptyDescription  = errors.New("empty description")
	ErrMissingStartMonth = errors.New("missing start month")

	// ErrNotFound covers both absent records and records owned by another
	// user, so callers cannot probe for other users' data.
	ErrNotFound = errors.New("not found")

	// ErrBillHasPayments rejects deleting a bill that still has recorded
	// payments. Payments are the audit trail; the bill must outlive them.
	ErrBillHasPayments = errors.New("bill has recorded payments")
)

// ValidationError is a user-correctable rejection with a specific reason.
// Sentinel errors above satisfy errors.Is checks; handlers treat both as
// bad input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalid builds a ValidationError with the given reason.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is user-correctable input rejection
// rather than an internal failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidDay),
		errors.Is(err, ErrInvalidMethod),
		errors.Is(err, ErrEmptyDescription),
		errors.Is(err, ErrMissingStartMonth):
		return true
	}
	return false
}
