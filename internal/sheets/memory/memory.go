package memory

import (
	"context"
	"fmt"
	"sync"

	ports "contas/internal/sheets"
)

// Writer is an in-memory ledger used by tests and the no-sheets
// development backend.
type Writer struct {
	mu      sync.Mutex
	entries []ports.LedgerEntry
}

var _ ports.PaymentLedgerWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) AppendPayment(_ context.Context, entry ports.LedgerEntry) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entry)
	return fmt.Sprintf("memory!A%d", len(w.entries)), nil
}

// Entries returns a copy of everything appended so far.
func (w *Writer) Entries() []ports.LedgerEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.LedgerEntry, len(w.entries))
	copy(out, w.entries)
	return out
}
