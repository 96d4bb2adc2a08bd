package services

import (
	"context"
	"errors"
	"testing"

	"moneta/internal/core"
	"moneta/internal/memory"
	"moneta/internal/ports"
)

func seedWallet(t *testing.T, store *memory.Store, id string, openingCents int64) {
	t.Helper()
	err := store.CreateWallet(context.Background(), core.Wallet{
		ID:             id,
		Name:           id,
		Type:           core.WalletBank,
		Balance:        core.Money{Cents: openingCents},
		OpeningBalance: core.Money{Cents: openingCents},
	})
	if err != nil {
		t.Fatalf("seed wallet %s: %v", id, err)
	}
}

func walletBalance(t *testing.T, store *memory.Store, id string) int64 {
	t.Helper()
	w, err := store.GetWallet(context.Background(), id)
	if err != nil {
		t.Fatalf("get wallet %s: %v", id, err)
	}
	return w.Balance.Cents
}

func TestCreateTransactionAdjustsWallet(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	seedWallet(t, store, "w-1", 10000)

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 2500},
		WalletID:    "w-1",
		Date:        core.NewDate(2026, 8, 1),
		Description: "coffee",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	if got := walletBalance(t, store, "w-1"); got != 7500 {
		t.Fatalf("balance = %d, want 7500", got)
	}

	income, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Amount:      core.Money{Cents: 500},
		WalletID:    "w-1",
		Date:        core.NewDate(2026, 8, 2),
		Description: "refund",
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	_ = income
	if got := walletBalance(t, store, "w-1"); got != 8000 {
		t.Fatalf("balance = %d, want 8000", got)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)

	_, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type:        "transfer",
		Amount:      core.Money{Cents: 100},
		Date:        core.NewDate(2026, 8, 1),
		Description: "bad type",
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	_, err = svc.CreateTransaction(context.Background(), core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: -5},
		Date:        core.NewDate(2026, 8, 1),
		Description: "negative",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransactionWithoutWallet(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)

	seedWallet(t, store, "w-1", 10000)

	_, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 999},
		WalletID:    "   ",
		Date:        core.NewDate(2026, 8, 1),
		Description: "unassigned",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := walletBalance(t, store, "w-1"); got != 10000 {
		t.Fatalf("balance = %d, want 10000 (untouched)", got)
	}
}

func TestCreateTransactionMissingWalletIsTolerated(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)

	tx, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 100},
		WalletID:    "ghost",
		Date:        core.NewDate(2026, 8, 1),
		Description: "orphan",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.GetTransaction(context.Background(), tx.ID); err != nil {
		t.Fatalf("transaction should be persisted: %v", err)
	}
}

func TestUpdateTransactionSameWallet(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	seedWallet(t, store, "w-1", 10000)

	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 3000},
		WalletID:    "w-1",
		Date:        core.NewDate(2026, 8, 5),
		Description: "dinner",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tx.Amount.Cents = 4500
	if _, err := svc.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := walletBalance(t, store, "w-1"); got != 5500 {
		t.Fatalf("balance = %d, want 5500", got)
	}
}

func TestUpdateTransactionMovesBetweenWallets(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	seedWallet(t, store, "w-a", 0)
	seedWallet(t, store, "w-b", 0)

	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 10000},
		WalletID:    "w-a",
		Date:        core.NewDate(2026, 8, 5),
		Description: "rent share",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := walletBalance(t, store, "w-a"); got != -10000 {
		t.Fatalf("w-a = %d, want -10000", got)
	}

	tx.WalletID = "w-b"
	if _, err := svc.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := walletBalance(t, store, "w-a"); got != 0 {
		t.Fatalf("w-a = %d, want 0 after move", got)
	}
	if got := walletBalance(t, store, "w-b"); got != -10000 {
		t.Fatalf("w-b = %d, want -10000 after move", got)
	}
}

func TestDeleteTransactionRevertsWallet(t *testing.T) {
	store := memory.New(nil)
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	seedWallet(t, store, "w-1", 2000)

	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Amount:      core.Money{Cents: 1500},
		WalletID:    "w-1",
		Date:        core.NewDate(2026, 8, 7),
		Description: "sold bike",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := walletBalance(t, store, "w-1"); got != 3500 {
		t.Fatalf("balance = %d, want 3500", got)
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := walletBalance(t, store, "w-1"); got != 2000 {
		t.Fatalf("balance = %d, want 2000 after delete", got)
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
