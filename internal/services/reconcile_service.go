package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/ledger"
	"moneta/internal/ports"
)

// ReconcileService runs full reconciliation passes against the store.
type ReconcileService struct {
	store ports.Store
}

func NewReconcileService(store ports.Store) *ReconcileService {
	return &ReconcileService{store: store}
}

// Diagnose loads the wallets and the full ledger and returns the drift
// report. Read-only.
func (s *ReconcileService) Diagnose(ctx context.Context) (ledger.Report, error) {
	wallets, err := s.store.ListWallets(ctx)
	if err != nil {
		return ledger.Report{}, fmt.Errorf("list wallets: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return ledger.Report{}, fmt.Errorf("list transactions: %w", err)
	}
	return ledger.Diagnose(wallets, txs), nil
}

// Repair diagnoses drift and overwrites every out-of-sync wallet's stored
// balance with the computed one. It returns the report describing the
// state before correction.
func (s *ReconcileService) Repair(ctx context.Context) (ledger.Report, error) {
	report, err := s.Diagnose(ctx)
	if err != nil {
		return ledger.Report{}, err
	}

	for _, drift := range report.OutOfSync() {
		if err := s.store.SetWalletBalance(ctx, drift.WalletID, drift.ComputedCents); err != nil {
			return report, fmt.Errorf("correct wallet %s: %w", drift.WalletID, err)
		}
		slog.InfoContext(ctx, "Corrected wallet balance",
			"wallet_id", drift.WalletID,
			"wallet_name", drift.WalletName,
			"stored_cents", drift.StoredCents,
			"computed_cents", drift.ComputedCents,
			"drift_cents", drift.DifferenceCents)
	}

	for _, orphan := range report.Orphans {
		slog.WarnContext(ctx, "Ledger references unknown wallet",
			"wallet_id", orphan.WalletID,
			"transactions", orphan.Transactions,
			"net_cents", orphan.NetCents)
	}

	return report, nil
}
