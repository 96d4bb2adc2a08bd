// Package worker consumes ledger events and runs the periodic
// reconciliation pass.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/ledger"
	"moneta/internal/ports"
	"moneta/internal/services"
)

// Exporter mirrors ledger rows and drift reports to an external sheet.
type Exporter interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
	WriteDriftReport(ctx context.Context, report ledger.Report) error
}

// ReconcileWorker reacts to ledger events and periodically repairs drift.
type ReconcileWorker struct {
	store     ports.Store
	reconcile *services.ReconcileService
	exporter  Exporter
}

// NewReconcileWorker creates the worker. exporter may be nil, in which case
// sheet export is skipped.
func NewReconcileWorker(store ports.Store, reconcile *services.ReconcileService, exporter Exporter) *ReconcileWorker {
	return &ReconcileWorker{
		store:     store,
		reconcile: reconcile,
		exporter:  exporter,
	}
}

// HandleMessage processes one ledger event from AMQP.
func (w *ReconcileWorker) HandleMessage(ctx context.Context, msg *amqp.LedgerMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"transaction_id", msg.TransactionID)

	switch msg.Kind {
	case amqp.KindTransactionCreated:
		return w.exportTransaction(ctx, msg.TransactionID)
	case amqp.KindTransactionUpdated, amqp.KindTransactionDeleted:
		// Balances were already adjusted incrementally; a full pass both
		// verifies that and refreshes the exported drift sheet.
		return w.repairAndExport(ctx)
	case amqp.KindReconcileRequested:
		return w.repairAndExport(ctx)
	default:
		slog.WarnContext(ctx, "Unknown ledger event kind, dropping", "kind", msg.Kind)
		return nil
	}
}

func (w *ReconcileWorker) exportTransaction(ctx context.Context, id string) error {
	if w.exporter == nil {
		return nil
	}

	t, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		// Deleted before we got to it.
		slog.WarnContext(ctx, "Transaction vanished before export", "transaction_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction for export: %w", err)
	}

	if err := w.exporter.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}

func (w *ReconcileWorker) repairAndExport(ctx context.Context) error {
	report, err := w.reconcile.Repair(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	if !report.InSync() {
		slog.InfoContext(ctx, "Reconciliation corrected drift",
			"wallets_corrected", len(report.OutOfSync()))
	}

	if w.exporter != nil {
		if err := w.exporter.WriteDriftReport(ctx, report); err != nil {
			// Export failure must not fail the repair; the next pass retries.
			slog.ErrorContext(ctx, "Failed to export drift report", "error", err)
		}
	}
	return nil
}

// RunPeriodic repairs drift on a fixed interval until ctx is done.
func (w *ReconcileWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting periodic reconciliation", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.repairAndExport(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic reconciliation failed", "error", err)
			}
		}
	}
}
