package ledger

import (
	"testing"

	"moneta/internal/core"
)

func wallet(id string, balanceCents int64) core.Wallet {
	return core.Wallet{ID: id, Name: id, Type: core.WalletCash, Balance: core.Money{Cents: balanceCents}}
}

func tx(id string, tt core.TransactionType, cents int64, walletID string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Type:     tt,
		Amount:   core.Money{Cents: cents},
		WalletID: walletID,
		Date:     core.NewDate(2026, 8, 15),
	}
}

func TestComputeBalances(t *testing.T) {
	txs := []core.Transaction{
		tx("t1", core.Income, 20000, "w1"),
		tx("t2", core.Expense, 5000, "w1"),
		tx("t3", core.Income, 3000, ""),     // unassigned
		tx("t4", core.Expense, 100, "   "),  // whitespace-only counts as unassigned
		tx("t5", core.Income, 700, "ghost"), // unknown wallet still accumulates
	}
	totals := ComputeBalances(txs)
	if got := totals["w1"]; got != 15000 {
		t.Fatalf("w1 total = %d, want 15000", got)
	}
	if got := totals["ghost"]; got != 700 {
		t.Fatalf("ghost total = %d, want 700", got)
	}
	if _, ok := totals[""]; ok {
		t.Fatalf("blank wallet id must not accumulate")
	}
}

func TestReconcileAllCorrectsDrift(t *testing.T) {
	// Example from the drift scenario: stored 500.00 vs computed 150.00.
	wallets := []core.Wallet{wallet("w1", 50000)}
	txs := []core.Transaction{
		tx("t1", core.Income, 20000, "w1"),
		tx("t2", core.Expense, 5000, "w1"),
		tx("t3", core.Income, 3000, ""),
	}

	updated, report := ReconcileAll(wallets, txs)

	if len(report.Wallets) != 1 {
		t.Fatalf("report wallets = %d, want 1", len(report.Wallets))
	}
	d := report.Wallets[0]
	if d.ComputedCents != 15000 {
		t.Fatalf("computed = %d, want 15000", d.ComputedCents)
	}
	if d.DifferenceCents != 35000 {
		t.Fatalf("difference = %d, want 35000", d.DifferenceCents)
	}
	if d.InSync {
		t.Fatalf("expected out of sync")
	}
	if updated[0].Balance.Cents != 15000 {
		t.Fatalf("corrected balance = %d, want 15000", updated[0].Balance.Cents)
	}
	// Input slice stays untouched.
	if wallets[0].Balance.Cents != 50000 {
		t.Fatalf("input wallet mutated: %d", wallets[0].Balance.Cents)
	}
}

func TestReconcileAllIdempotent(t *testing.T) {
	wallets := []core.Wallet{wallet("w1", 123), wallet("w2", -456)}
	txs := []core.Transaction{
		tx("t1", core.Income, 1000, "w1"),
		tx("t2", core.Expense, 250, "w1"),
		tx("t3", core.Expense, 90, "w2"),
	}

	first, _ := ReconcileAll(wallets, txs)
	second, report := ReconcileAll(first, txs)

	for i := range first {
		if first[i].Balance.Cents != second[i].Balance.Cents {
			t.Fatalf("wallet %s changed on second pass: %d vs %d",
				first[i].ID, first[i].Balance.Cents, second[i].Balance.Cents)
		}
	}
	if !report.InSync() {
		t.Fatalf("second pass must report zero drift, got %+v", report.OutOfSync())
	}
}

func TestComputeBalancesOrderIndependent(t *testing.T) {
	txs := []core.Transaction{
		tx("t1", core.Income, 100, "w1"),
		tx("t2", core.Expense, 30, "w1"),
		tx("t3", core.Income, 55, "w2"),
		tx("t4", core.Expense, 5, "w2"),
		tx("t5", core.Income, 7, "w1"),
	}
	want := ComputeBalances(txs)

	// Reverse and a hand-picked shuffle must agree with the original order.
	perms := [][]int{
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	for _, p := range perms {
		permuted := make([]core.Transaction, len(txs))
		for i, j := range p {
			permuted[i] = txs[j]
		}
		got := ComputeBalances(permuted)
		if len(got) != len(want) {
			t.Fatalf("permutation %v: map size %d, want %d", p, len(got), len(want))
		}
		for id, cents := range want {
			if got[id] != cents {
				t.Fatalf("permutation %v: wallet %s = %d, want %d", p, id, got[id], cents)
			}
		}
	}
}

func TestDiagnoseToleranceBoundary(t *testing.T) {
	// Computed balance is 0 for a wallet with no transactions and no
	// opening balance; drift of exactly one cent is in sync, anything
	// above is out of sync.
	cases := []struct {
		storedCents int64
		inSync      bool
	}{
		{0, true},
		{1, true},
		{-1, true},
		{2, false},
		{-2, false},
		{35000, false},
	}
	for _, tc := range cases {
		report := Diagnose([]core.Wallet{wallet("w1", tc.storedCents)}, nil)
		if got := report.Wallets[0].InSync; got != tc.inSync {
			t.Fatalf("stored %d cents: inSync = %v, want %v", tc.storedCents, got, tc.inSync)
		}
	}
}

func TestDiagnoseEmptyWalletReportsZero(t *testing.T) {
	report := Diagnose([]core.Wallet{wallet("lonely", 0)}, nil)
	if len(report.Wallets) != 1 {
		t.Fatalf("expected wallet in report even with no transactions")
	}
	if report.Wallets[0].ComputedCents != 0 {
		t.Fatalf("computed = %d, want 0", report.Wallets[0].ComputedCents)
	}
	if !report.Wallets[0].InSync {
		t.Fatalf("zero-balance wallet with no transactions must be in sync")
	}
}

func TestDiagnoseOpeningBalanceIsNotDrift(t *testing.T) {
	w := wallet("w1", 10000)
	w.OpeningBalance = core.Money{Cents: 10000}
	report := Diagnose([]core.Wallet{w}, nil)
	if !report.Wallets[0].InSync {
		t.Fatalf("opening balance must not be flagged as drift: %+v", report.Wallets[0])
	}

	// And it participates in the expected balance once transactions exist.
	report = Diagnose([]core.Wallet{w}, []core.Transaction{tx("t1", core.Expense, 2500, "w1")})
	if got := report.Wallets[0].ComputedCents; got != 7500 {
		t.Fatalf("computed = %d, want 7500", got)
	}
}

func TestDiagnoseReportsOrphans(t *testing.T) {
	wallets := []core.Wallet{wallet("w1", 0)}
	txs := []core.Transaction{
		tx("t1", core.Income, 500, "deleted-wallet"),
		tx("t2", core.Expense, 200, "deleted-wallet"),
		tx("t3", core.Income, 100, "w1"),
	}
	report := Diagnose(wallets, txs)
	if len(report.Orphans) != 1 {
		t.Fatalf("orphans = %d, want 1", len(report.Orphans))
	}
	o := report.Orphans[0]
	if o.WalletID != "deleted-wallet" || o.Transactions != 2 || o.NetCents != 300 {
		t.Fatalf("unexpected orphan entry: %+v", o)
	}
	// Orphaned amounts never leak into a real wallet.
	if report.Wallets[0].ComputedCents != 100 {
		t.Fatalf("w1 computed = %d, want 100", report.Wallets[0].ComputedCents)
	}
}

func TestDiagnoseNegativeAmountStillSigned(t *testing.T) {
	// Upstream validation rejects negative amounts, but the engine applies
	// signed arithmetic to whatever it is given instead of failing.
	txs := []core.Transaction{tx("t1", core.Income, -500, "w1")}
	report := Diagnose([]core.Wallet{wallet("w1", -500)}, txs)
	if !report.Wallets[0].InSync {
		t.Fatalf("expected in sync, got %+v", report.Wallets[0])
	}
}
