package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"contas/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how paid_on and start_month are stored. TEXT dates in
// this layout compare correctly with string comparison, which the window
// queries rely on.
const dateLayout = "2006-01-02"

// SQLiteRepository persists bills and payments in a single SQLite file.
// Every query is scoped by user_id; a row belonging to another user is
// indistinguishable from a missing row and surfaces as core.ErrNotFound.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateBill(ctx context.Context, bill core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bills (user_id, category_id, description, base_amount_cents, recurrence, fixed_day, start_month, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.UserID, bill.CategoryID, bill.Description, bill.BaseAmount.Cents,
		string(bill.Recurrence), bill.FixedDay, bill.StartMonth.Format(dateLayout), boolToInt(bill.Active))
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("bill id: %w", err)
	}
	bill.ID = id
	return bill, nil
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, bill core.Bill) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bills
		SET category_id = ?, description = ?, base_amount_cents = ?, recurrence = ?, fixed_day = ?, start_month = ?, active = ?
		WHERE id = ? AND user_id = ?`,
		bill.CategoryID, bill.Description, bill.BaseAmount.Cents, string(bill.Recurrence),
		bill.FixedDay, bill.StartMonth.Format(dateLayout), boolToInt(bill.Active),
		bill.ID, bill.UserID)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, userID, billID int64) error {
	// The RESTRICT constraint on payments.bill_id would also reject
	// this, but checking first gives the caller a clean sentinel.
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE bill_id = ? AND user_id = ?`, billID, userID).Scan(&n)
	if err != nil {
		return fmt.Errorf("count payments: %w", err)
	}
	if n > 0 {
		return core.ErrBillHasPayments
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ? AND user_id = ?`, billID, userID)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetBill(ctx context.Context, userID, billID int64) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, description, base_amount_cents, recurrence, fixed_day, start_month, active
		FROM bills WHERE id = ? AND user_id = ?`, billID, userID)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, core.ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return bill, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context, userID int64, activeOnly bool) ([]core.Bill, error) {
	query := `
		SELECT id, user_id, category_id, description, base_amount_cents, recurrence, fixed_day, start_month, active
		FROM bills WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) CategoryNames(ctx context.Context, userID int64) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, payment core.Payment) (core.Payment, error) {
	// Ownership of the target bill is checked up front so a foreign
	// bill id reads as not-found rather than a constraint error.
	if _, err := r.GetBill(ctx, payment.UserID, payment.BillID); err != nil {
		return core.Payment{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (user_id, bill_id, method, amount_cents, paid_on, interest_cents, penalty_cents, discount_cents, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.UserID, payment.BillID, string(payment.Method), payment.Amount.Cents,
		payment.Date.Format(dateLayout), payment.Interest.Cents, payment.Penalty.Cents,
		payment.Discount.Cents, payment.Notes)
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment id: %w", err)
	}
	payment.ID = id
	return payment, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ? AND user_id = ?`, paymentID, userID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, userID, paymentID int64) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, bill_id, method, amount_cents, paid_on, interest_cents, penalty_cents, discount_cents, notes
		FROM payments WHERE id = ? AND user_id = ?`, paymentID, userID)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, core.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return payment, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context, userID, billID int64) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, bill_id, method, amount_cents, paid_on, interest_cents, penalty_cents, discount_cents, notes
		FROM payments WHERE user_id = ? AND bill_id = ?
		ORDER BY paid_on, id`, userID, billID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) PaymentDatesByBill(ctx context.Context, userID int64) (map[int64][]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bill_id, paid_on FROM payments WHERE user_id = ? ORDER BY paid_on`, userID)
	if err != nil {
		return nil, fmt.Errorf("payment dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[int64][]time.Time)
	for rows.Next() {
		var billID int64
		var paidOn string
		if err := rows.Scan(&billID, &paidOn); err != nil {
			return nil, fmt.Errorf("scan payment date: %w", err)
		}
		d, err := time.ParseInLocation(dateLayout, paidOn, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse payment date %q: %w", paidOn, err)
		}
		dates[billID] = append(dates[billID], d)
	}
	return dates, rows.Err()
}

func (r *SQLiteRepository) PaidByBillInWindow(ctx context.Context, userID int64, start, end time.Time) (map[int64]core.Money, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bill_id, SUM(amount_cents)
		FROM payments
		WHERE user_id = ? AND paid_on BETWEEN ? AND ?
		GROUP BY bill_id`,
		userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("paid by bill: %w", err)
	}
	defer rows.Close()

	sums := make(map[int64]core.Money)
	for rows.Next() {
		var billID, cents int64
		if err := rows.Scan(&billID, &cents); err != nil {
			return nil, fmt.Errorf("scan bill sum: %w", err)
		}
		sums[billID] = core.Money{Cents: cents}
	}
	return sums, rows.Err()
}

func (r *SQLiteRepository) SumPaymentsInWindow(ctx context.Context, userID int64, start, end time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE user_id = ? AND paid_on BETWEEN ? AND ?`,
		userID, start.Format(dateLayout), end.Format(dateLayout)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum payments: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, start, end time.Time) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, SUM(p.amount_cents)
		FROM payments p
		JOIN bills b ON b.id = p.bill_id
		JOIN categories c ON c.id = b.category_id
		WHERE p.user_id = ? AND p.paid_on BETWEEN ? AND ?
		GROUP BY c.id, c.name
		ORDER BY c.id`,
		userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := make([]core.CategoryTotal, 0)
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.Name, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// EnsureUser inserts a user row if it does not exist. The HTTP layer
// trusts an upstream proxy for identity, so rows are created lazily on
// first write.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`, userID, name)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// EnsureCategory returns the id of the named category for the user,
// creating it when missing.
func (r *SQLiteRepository) EnsureCategory(ctx context.Context, userID int64, name string) (int64, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name) VALUES (?, ?)
		ON CONFLICT(user_id, name) DO NOTHING`, userID, name)
	if err != nil {
		return 0, fmt.Errorf("ensure category: %w", err)
	}
	var id int64
	err = r.db.QueryRowContext(ctx, `
		SELECT id FROM categories WHERE user_id = ? AND name = ?`, userID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup category: %w", err)
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBill(s scanner) (core.Bill, error) {
	var bill core.Bill
	var recurrence, startMonth string
	var active int
	err := s.Scan(&bill.ID, &bill.UserID, &bill.CategoryID, &bill.Description,
		&bill.BaseAmount.Cents, &recurrence, &bill.FixedDay, &startMonth, &active)
	if err != nil {
		return core.Bill{}, err
	}
	bill.Recurrence = core.RecurrenceTypes(recurrence)
	bill.Active = active != 0
	bill.StartMonth, err = time.ParseInLocation(dateLayout, startMonth, time.UTC)
	if err != nil {
		return core.Bill{}, fmt.Errorf("parse start month %q: %w", startMonth, err)
	}
	return bill, nil
}

func scanPayment(s scanner) (core.Payment, error) {
	var payment core.Payment
	var method, paidOn string
	err := s.Scan(&payment.ID, &payment.UserID, &payment.BillID, &method,
		&payment.Amount.Cents, &paidOn, &payment.Interest.Cents,
		&payment.Penalty.Cents, &payment.Discount.Cents, &payment.Notes)
	if err != nil {
		return core.Payment{}, err
	}
	payment.Method = core.PaymentMethod(method)
	payment.Date, err = time.ParseInLocation(dateLayout, paidOn, time.UTC)
	if err != nil {
		return core.Payment{}, fmt.Errorf("parse payment date %q: %w", paidOn, err)
	}
	return payment, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
