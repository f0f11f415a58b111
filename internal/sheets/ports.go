package sheets

import "context"

// LedgerEntry is one exported payment row: the bill it settles, the
// category it falls under and the amounts involved.
type LedgerEntry struct {
	PaymentID   int64
	BillID      int64
	Description string
	Category    string
	Method      string
	AmountCents int64
	Date        string
	Notes       string
}

// PaymentLedgerWriter appends settled payments to an external ledger.
type PaymentLedgerWriter interface {
	AppendPayment(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}
