package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/core"
	"moneta/internal/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := RunMigrations(dbPath); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID:          "tx-1",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 1250},
		CategoryID:  "cat-groceries",
		WalletID:    "w-1",
		Date:        core.NewDate(2026, 8, 15),
		Description: "weekly shop",
		CreatedAt:   time.Now(),
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 1250 || got.Type != core.Expense || got.WalletID != "w-1" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Date.String() != "2026-08-15" {
		t.Fatalf("date round-trip = %q", got.Date.String())
	}

	got.Description = "monthly shop"
	got.Amount.Cents = 9900
	if err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Description != "monthly shop" || updated.Amount.Cents != 9900 {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := repo.DeleteTransaction(ctx, "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, "tx-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "tx-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListTransactionsByMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []core.Date{
		core.NewDate(2026, 7, 31),
		core.NewDate(2026, 8, 1),
		core.NewDate(2026, 8, 31),
		core.NewDate(2026, 9, 1),
		core.NewDate(2026, 12, 25),
	}
	for i, d := range dates {
		tx := core.Transaction{
			ID:          string(rune('a' + i)),
			Type:        core.Expense,
			Amount:      core.Money{Cents: 100},
			Date:        d,
			Description: "t",
			CreatedAt:   time.Now(),
		}
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	aug, err := repo.ListTransactionsByMonth(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("list august: %v", err)
	}
	if len(aug) != 2 {
		t.Fatalf("august count = %d, want 2", len(aug))
	}

	dec, err := repo.ListTransactionsByMonth(ctx, 2026, 12)
	if err != nil {
		t.Fatalf("list december: %v", err)
	}
	if len(dec) != 1 {
		t.Fatalf("december count = %d, want 1", len(dec))
	}
}

func TestWalletBalanceAdjustments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	w := core.Wallet{
		ID:             "w-1",
		Name:           "Checking",
		Type:           core.WalletBank,
		Balance:        core.Money{Cents: 10000},
		OpeningBalance: core.Money{Cents: 10000},
		CreatedAt:      time.Now(),
	}
	if err := repo.CreateWallet(ctx, w); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if err := repo.AdjustWalletBalance(ctx, "w-1", -2500); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := repo.AdjustWalletBalance(ctx, "w-1", 500); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	got, err := repo.GetWallet(ctx, "w-1")
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if got.Balance.Cents != 8000 {
		t.Fatalf("balance = %d, want 8000", got.Balance.Cents)
	}
	if got.OpeningBalance.Cents != 10000 {
		t.Fatalf("opening balance changed: %d", got.OpeningBalance.Cents)
	}

	if err := repo.SetWalletBalance(ctx, "w-1", 123); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	got, _ = repo.GetWallet(ctx, "w-1")
	if got.Balance.Cents != 123 {
		t.Fatalf("balance after set = %d, want 123", got.Balance.Cents)
	}

	if err := repo.AdjustWalletBalance(ctx, "missing", 1); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing wallet, got %v", err)
	}
}

func TestSeededCategories(t *testing.T) {
	repo := newTestRepo(t)

	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("expected seeded categories")
	}
	byID := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	if _, ok := byID["cat-salary"]; !ok {
		t.Fatal("missing seeded category cat-salary")
	}
	if byID["cat-restaurants"].ParentID != "cat-groceries" {
		t.Fatalf("cat-restaurants parent = %q", byID["cat-restaurants"].ParentID)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := core.Budget{CategoryID: "cat-groceries", Year: 2026, Month: 8, Limit: core.Money{Cents: 40000}}
	if err := repo.UpsertBudget(ctx, b); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	b.Limit.Cents = 50000
	if err := repo.UpsertBudget(ctx, b); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	budgets, err := repo.ListBudgets(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("budget count = %d, want 1", len(budgets))
	}
	if budgets[0].Limit.Cents != 50000 {
		t.Fatalf("limit = %d, want 50000", budgets[0].Limit.Cents)
	}
}

func TestReadMonthOverview(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	txs := []core.Transaction{
		{ID: "t1", Type: core.Income, Amount: core.Money{Cents: 200000}, CategoryID: "cat-salary", Date: core.NewDate(2026, 8, 1), Description: "pay", CreatedAt: time.Now()},
		{ID: "t2", Type: core.Expense, Amount: core.Money{Cents: 30000}, CategoryID: "cat-groceries", Date: core.NewDate(2026, 8, 10), Description: "food", CreatedAt: time.Now()},
		{ID: "t3", Type: core.Expense, Amount: core.Money{Cents: 5000}, CategoryID: "cat-groceries", Date: core.NewDate(2026, 9, 2), Description: "next month", CreatedAt: time.Now()},
	}
	for _, tx := range txs {
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	ov, err := repo.ReadMonthOverview(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("read overview: %v", err)
	}
	if ov.Income.Cents != 200000 {
		t.Fatalf("income = %d", ov.Income.Cents)
	}
	if ov.Expense.Cents != 30000 {
		t.Fatalf("expense = %d", ov.Expense.Cents)
	}
	if ov.Net.Cents != 170000 {
		t.Fatalf("net = %d", ov.Net.Cents)
	}
}
