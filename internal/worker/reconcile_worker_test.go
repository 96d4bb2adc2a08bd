package worker

import (
	"context"
	"testing"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/ledger"
	"moneta/internal/memory"
	"moneta/internal/services"
)

type fakeExporter struct {
	appended []core.Transaction
	reports  []ledger.Report
	fail     error
}

func (f *fakeExporter) AppendTransaction(_ context.Context, t core.Transaction) error {
	if f.fail != nil {
		return f.fail
	}
	f.appended = append(f.appended, t)
	return nil
}

func (f *fakeExporter) WriteDriftReport(_ context.Context, r ledger.Report) error {
	f.reports = append(f.reports, r)
	return nil
}

func newWorkerFixture(t *testing.T) (*memory.Store, *ReconcileWorker, *fakeExporter) {
	t.Helper()
	store := memory.New(nil)
	exporter := &fakeExporter{}
	w := NewReconcileWorker(store, services.NewReconcileService(store), exporter)
	return store, w, exporter
}

func TestHandleCreatedExportsTransaction(t *testing.T) {
	store, w, exporter := newWorkerFixture(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID: "tx-1", Type: core.Expense, Amount: core.Money{Cents: 1200},
		WalletID: "w-1", Date: core.NewDate(2026, 8, 12), Description: "lunch",
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	msg := amqp.NewTransactionMessage(amqp.KindTransactionCreated, "tx-1", "w-1")
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(exporter.appended) != 1 || exporter.appended[0].ID != "tx-1" {
		t.Fatalf("appended = %+v", exporter.appended)
	}
}

func TestHandleCreatedMissingTransactionIsDropped(t *testing.T) {
	_, w, exporter := newWorkerFixture(t)

	msg := amqp.NewTransactionMessage(amqp.KindTransactionCreated, "gone", "w-1")
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected nil for vanished transaction, got %v", err)
	}
	if len(exporter.appended) != 0 {
		t.Fatalf("nothing should be exported, got %+v", exporter.appended)
	}
}

func TestHandleReconcileRequestedRepairsAndExports(t *testing.T) {
	store, w, exporter := newWorkerFixture(t)
	ctx := context.Background()

	if err := store.CreateWallet(ctx, core.Wallet{
		ID: "w-1", Name: "Checking", Type: core.WalletBank,
		Balance: core.Money{Cents: 50000},
	}); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	if err := store.CreateTransaction(ctx, core.Transaction{
		ID: "t1", Type: core.Income, Amount: core.Money{Cents: 15000},
		WalletID: "w-1", Date: core.NewDate(2026, 8, 1), Description: "pay",
	}); err != nil {
		t.Fatalf("seed tx: %v", err)
	}

	if err := w.HandleMessage(ctx, amqp.NewReconcileMessage()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	wallet, err := store.GetWallet(ctx, "w-1")
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if wallet.Balance.Cents != 15000 {
		t.Fatalf("balance = %d, want 15000 after repair", wallet.Balance.Cents)
	}

	if len(exporter.reports) != 1 {
		t.Fatalf("drift reports exported = %d, want 1", len(exporter.reports))
	}
	if exporter.reports[0].InSync() {
		t.Fatal("exported report should describe the pre-correction drift")
	}
}

func TestHandleUnknownKindIsDropped(t *testing.T) {
	_, w, _ := newWorkerFixture(t)

	msg := &amqp.LedgerMessage{Kind: "something.else"}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown kind should be dropped, got %v", err)
	}
}

func TestNilExporterIsFine(t *testing.T) {
	store := memory.New(nil)
	w := NewReconcileWorker(store, services.NewReconcileService(store), nil)
	ctx := context.Background()

	if err := store.CreateTransaction(ctx, core.Transaction{
		ID: "t1", Type: core.Expense, Amount: core.Money{Cents: 10},
		Date: core.NewDate(2026, 8, 1), Description: "x",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := w.HandleMessage(ctx, amqp.NewTransactionMessage(amqp.KindTransactionCreated, "t1")); err != nil {
		t.Fatalf("handle with nil exporter: %v", err)
	}
	if err := w.HandleMessage(ctx, amqp.NewReconcileMessage()); err != nil {
		t.Fatalf("reconcile with nil exporter: %v", err)
	}
}
