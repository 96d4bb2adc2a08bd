// Package ledger implements wallet balance reconciliation: recomputing
// each wallet's balance from the transaction ledger, reporting drift
// between stored and computed balances, and applying minimal incremental
// deltas for single transaction mutations.
//
// Every function here is a pure function of its inputs; persistence is
// the caller's concern.
package ledger

import (
	"sort"
	"strings"

	"moneta/internal/core"
)

// ToleranceCents is the drift tolerance: a stored balance within one cent
// of the computed balance counts as in sync.
const ToleranceCents = 1

// WalletDrift describes one wallet's stored vs. computed balance.
type WalletDrift struct {
	WalletID        string `json:"wallet_id"`
	WalletName      string `json:"wallet_name"`
	StoredCents     int64  `json:"stored_cents"`
	ComputedCents   int64  `json:"computed_cents"`
	DifferenceCents int64  `json:"difference_cents"`
	InSync          bool   `json:"in_sync"`
}

// OrphanRef describes transactions referencing a wallet id that matches
// no known wallet. Orphaned amounts never mutate any wallet; they are
// surfaced here as a diagnostic.
type OrphanRef struct {
	WalletID     string `json:"wallet_id"`
	Transactions int    `json:"transactions"`
	NetCents     int64  `json:"net_cents"`
}

// Report is the drift diagnostic for a full reconciliation pass.
type Report struct {
	Wallets []WalletDrift `json:"wallets"`
	Orphans []OrphanRef   `json:"orphans,omitempty"`
}

// InSync reports whether every wallet in the report is within tolerance.
func (r Report) InSync() bool {
	for _, w := range r.Wallets {
		if !w.InSync {
			return false
		}
	}
	return true
}

// OutOfSync returns the subset of wallets whose drift exceeds tolerance.
func (r Report) OutOfSync() []WalletDrift {
	var out []WalletDrift
	for _, w := range r.Wallets {
		if !w.InSync {
			out = append(out, w)
		}
	}
	return out
}

// ComputeBalances sums signed transaction amounts per wallet id in a
// single pass. The result is order-independent. Transactions with a
// blank wallet id are skipped; unknown wallet ids still accumulate under
// their id so callers can report them.
func ComputeBalances(txs []core.Transaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, t := range txs {
		id := strings.TrimSpace(t.WalletID)
		if id == "" {
			continue
		}
		totals[id] += t.SignedCents()
	}
	return totals
}

// Diagnose produces the drift report for the given wallets and ledger
// without mutating anything. A wallet's computed balance is its opening
// balance plus the signed sum of its transactions; wallets with no
// matching transactions compute to their opening balance, not to
// "undefined".
func Diagnose(wallets []core.Wallet, txs []core.Transaction) Report {
	known := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		known[w.ID] = struct{}{}
	}

	totals := make(map[string]int64, len(wallets))
	orphanNet := make(map[string]int64)
	orphanCount := make(map[string]int)
	for _, t := range txs {
		id := strings.TrimSpace(t.WalletID)
		if id == "" {
			continue
		}
		if _, ok := known[id]; ok {
			totals[id] += t.SignedCents()
			continue
		}
		orphanNet[id] += t.SignedCents()
		orphanCount[id]++
	}

	report := Report{Wallets: make([]WalletDrift, 0, len(wallets))}
	for _, w := range wallets {
		computed := w.OpeningBalance.Cents + totals[w.ID]
		diff := w.Balance.Cents - computed
		report.Wallets = append(report.Wallets, WalletDrift{
			WalletID:        w.ID,
			WalletName:      w.Name,
			StoredCents:     w.Balance.Cents,
			ComputedCents:   computed,
			DifferenceCents: diff,
			InSync:          abs(diff) <= ToleranceCents,
		})
	}

	orphanIDs := make([]string, 0, len(orphanNet))
	for id := range orphanNet {
		orphanIDs = append(orphanIDs, id)
	}
	sort.Strings(orphanIDs)
	for _, id := range orphanIDs {
		report.Orphans = append(report.Orphans, OrphanRef{
			WalletID:     id,
			Transactions: orphanCount[id],
			NetCents:     orphanNet[id],
		})
	}

	return report
}

// ReconcileAll recomputes every wallet balance from the ledger and
// corrects wallets whose stored balance drifts beyond tolerance. It
// returns a corrected copy of the wallet list together with the drift
// report describing the state before correction. The input slice is not
// modified.
func ReconcileAll(wallets []core.Wallet, txs []core.Transaction) ([]core.Wallet, Report) {
	report := Diagnose(wallets, txs)

	updated := make([]core.Wallet, len(wallets))
	copy(updated, wallets)
	for i, drift := range report.Wallets {
		if !drift.InSync {
			updated[i].Balance.Cents = drift.ComputedCents
		}
	}
	return updated, report
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
