// Package storage implements ports.Store on SQLite. Schema changes live in
// migrations/ and are applied with golang-migrate at startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"moneta/internal/core"
	"moneta/internal/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialize writers; modernc/sqlite returns SQLITE_BUSY otherwise.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount_cents, category_id, wallet_id, date, description, note, with_person, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount.Cents, t.CategoryID, t.WalletID,
		t.Date.String(), t.Description, t.Note, t.WithPerson,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, amount_cents, category_id, wallet_id, date, description, note, with_person, created_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount_cents = ?, category_id = ?, wallet_id = ?, date = ?, description = ?, note = ?, with_person = ?
		WHERE id = ?`,
		string(t.Type), t.Amount.Cents, t.CategoryID, t.WalletID,
		t.Date.String(), t.Description, t.Note, t.WithPerson, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category_id, wallet_id, date, description, note, with_person, created_at
		FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	// Dates are stored as YYYY-MM-DD text, so a lexicographic range covers
	// the month.
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	to := fmt.Sprintf("%04d-%02d-01", year, month+1)
	if month == 12 {
		to = fmt.Sprintf("%04d-01-01", year+1)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category_id, wallet_id, date, description, note, with_person, created_at
		FROM transactions WHERE date >= ? AND date < ? ORDER BY date, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions by month: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (id, name, color, icon, type, balance_cents, opening_balance_cents, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Color, w.Icon, string(w.Type),
		w.Balance.Cents, w.OpeningBalance.Cents, boolToInt(w.IsDefault),
		w.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, icon, type, balance_cents, opening_balance_cents, is_default, created_at
		FROM wallets WHERE id = ?`, id)
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (r *SQLiteRepository) UpdateWallet(ctx context.Context, w core.Wallet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wallets
		SET name = ?, color = ?, icon = ?, type = ?, balance_cents = ?, opening_balance_cents = ?, is_default = ?
		WHERE id = ?`,
		w.Name, w.Color, w.Icon, string(w.Type),
		w.Balance.Cents, w.OpeningBalance.Cents, boolToInt(w.IsDefault), w.ID,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteWallet(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, icon, type, balance_cents, opening_balance_cents, is_default, created_at
		FROM wallets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// AdjustWalletBalance applies the delta in a single UPDATE so concurrent
// adjustments never lose increments.
func (r *SQLiteRepository) AdjustWalletBalance(ctx context.Context, id string, deltaCents int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + ? WHERE id = ?`, deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust wallet balance: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) SetWalletBalance(ctx context.Context, id string, cents int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = ? WHERE id = ?`, cents, id)
	if err != nil {
		return fmt.Errorf("set wallet balance: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, color, icon, parent_id FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		var parent sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &typ, &c.Color, &c.Icon, &parent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.CategoryType(typ)
		c.ParentID = parent.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, year, month, limit_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (category_id, year, month) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.CategoryID, b.Year, b.Month, b.Limit.Cents,
	)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category_id, year, month, limit_cents
		FROM budgets WHERE year = ? AND month = ? ORDER BY category_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.CategoryID, &b.Year, &b.Month, &b.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	txs, err := r.ListTransactionsByMonth(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	cats, err := r.ListCategories(ctx)
	if err != nil {
		return core.MonthOverview{}, err
	}
	return core.SummarizeMonth(year, month, txs, cats), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ, date, createdAt string
	if err := row.Scan(&t.ID, &typ, &t.Amount.Cents, &t.CategoryID, &t.WalletID,
		&date, &t.Description, &t.Note, &t.WithPerson, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	t.Date = d

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var w core.Wallet
	var typ, createdAt string
	var isDefault int
	if err := row.Scan(&w.ID, &w.Name, &w.Color, &w.Icon, &typ,
		&w.Balance.Cents, &w.OpeningBalance.Cents, &isDefault, &createdAt); err != nil {
		return core.Wallet{}, err
	}
	w.Type = core.WalletType(typ)
	w.IsDefault = isDefault != 0

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return core.Wallet{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	w.CreatedAt = ts
	return w, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
