package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"contas/internal/core"
)

// MemoryStore is an in-memory implementation of the bill and payment
// stores. It backs tests and the no-database development backend, and
// mirrors the SQLite repository's semantics including restrict-on-delete
// between payments and bills.
type MemoryStore struct {
	mu         sync.RWMutex
	bills      map[int64]core.Bill
	payments   map[int64]core.Payment
	categories map[int64]memCategory

	nextBill     int64
	nextPayment  int64
	nextCategory int64
}

type memCategory struct {
	UserID int64
	Name   string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bills:      make(map[int64]core.Bill),
		payments:   make(map[int64]core.Payment),
		categories: make(map[int64]memCategory),
	}
}

// SeedCategory registers a category for a user and returns its id.
func (m *MemoryStore) SeedCategory(userID int64, name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCategory++
	m.categories[m.nextCategory] = memCategory{UserID: userID, Name: name}
	return m.nextCategory
}

func (m *MemoryStore) CreateBill(_ context.Context, bill core.Bill) (core.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBill++
	bill.ID = m.nextBill
	m.bills[bill.ID] = bill
	return bill, nil
}

func (m *MemoryStore) UpdateBill(_ context.Context, bill core.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.bills[bill.ID]
	if !ok || existing.UserID != bill.UserID {
		return core.ErrNotFound
	}
	m.bills[bill.ID] = bill
	return nil
}

func (m *MemoryStore) DeleteBill(_ context.Context, userID, billID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.bills[billID]
	if !ok || bill.UserID != userID {
		return core.ErrNotFound
	}
	for _, p := range m.payments {
		if p.BillID == billID {
			return core.ErrBillHasPayments
		}
	}
	delete(m.bills, billID)
	return nil
}

func (m *MemoryStore) GetBill(_ context.Context, userID, billID int64) (core.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bill, ok := m.bills[billID]
	if !ok || bill.UserID != userID {
		return core.Bill{}, core.ErrNotFound
	}
	return bill, nil
}

func (m *MemoryStore) ListBills(_ context.Context, userID int64, activeOnly bool) ([]core.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bills []core.Bill
	for _, b := range m.bills {
		if b.UserID != userID {
			continue
		}
		if activeOnly && !b.Active {
			continue
		}
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID < bills[j].ID })
	return bills, nil
}

func (m *MemoryStore) CategoryNames(_ context.Context, userID int64) (map[int64]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make(map[int64]string)
	for id, c := range m.categories {
		if c.UserID == userID {
			names[id] = c.Name
		}
	}
	return names, nil
}

func (m *MemoryStore) CreatePayment(_ context.Context, payment core.Payment) (core.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.bills[payment.BillID]
	if !ok || bill.UserID != payment.UserID {
		return core.Payment{}, core.ErrNotFound
	}
	m.nextPayment++
	payment.ID = m.nextPayment
	m.payments[payment.ID] = payment
	return payment, nil
}

func (m *MemoryStore) DeletePayment(_ context.Context, userID, paymentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok || p.UserID != userID {
		return core.ErrNotFound
	}
	delete(m.payments, paymentID)
	return nil
}

func (m *MemoryStore) GetPayment(_ context.Context, userID, paymentID int64) (core.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[paymentID]
	if !ok || p.UserID != userID {
		return core.Payment{}, core.ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) ListPayments(_ context.Context, userID, billID int64) ([]core.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []core.Payment
	for _, p := range m.payments {
		if p.UserID == userID && p.BillID == billID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].Date.Equal(payments[j].Date) {
			return payments[i].ID < payments[j].ID
		}
		return payments[i].Date.Before(payments[j].Date)
	})
	return payments, nil
}

func (m *MemoryStore) PaymentDatesByBill(_ context.Context, userID int64) (map[int64][]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dates := make(map[int64][]time.Time)
	for _, p := range m.payments {
		if p.UserID == userID {
			dates[p.BillID] = append(dates[p.BillID], p.Date)
		}
	}
	return dates, nil
}

func (m *MemoryStore) PaidByBillInWindow(_ context.Context, userID int64, start, end time.Time) (map[int64]core.Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[int64]core.Money)
	for _, p := range m.payments {
		if p.UserID == userID && inWindow(p.Date, start, end) {
			sums[p.BillID] = core.Money{Cents: sums[p.BillID].Cents + p.Amount.Cents}
		}
	}
	return sums, nil
}

func (m *MemoryStore) SumPaymentsInWindow(_ context.Context, userID int64, start, end time.Time) (core.Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total core.Money
	for _, p := range m.payments {
		if p.UserID == userID && inWindow(p.Date, start, end) {
			total.Cents += p.Amount.Cents
		}
	}
	return total, nil
}

func (m *MemoryStore) CategoryTotals(_ context.Context, userID int64, start, end time.Time) ([]core.CategoryTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[int64]int64)
	for _, p := range m.payments {
		if p.UserID != userID || !inWindow(p.Date, start, end) {
			continue
		}
		bill, ok := m.bills[p.BillID]
		if !ok {
			continue
		}
		sums[bill.CategoryID] += p.Amount.Cents
	}

	totals := make([]core.CategoryTotal, 0, len(sums))
	for catID, cents := range sums {
		totals = append(totals, core.CategoryTotal{
			CategoryID: catID,
			Name:       m.categories[catID].Name,
			Total:      core.Money{Cents: cents},
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].CategoryID < totals[j].CategoryID })
	return totals, nil
}

func inWindow(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
