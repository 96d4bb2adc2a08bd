// Package services orchestrates store writes, wallet balance deltas, and
// ledger event publishing.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/ports"
)

// LedgerService owns transaction writes. Every write keeps the affected
// wallet balances in step by applying the signed delta in the same call.
type LedgerService struct {
	store      ports.Store
	amqpClient *amqp.Client
}

// NewLedgerService creates the service. amqpClient may be nil, in which case
// ledger events are skipped.
func NewLedgerService(store ports.Store, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{store: store, amqpClient: amqpClient}
}

// CreateTransaction validates and persists a transaction, then credits or
// debits its wallet.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.applyWalletDelta(ctx, t.WalletID, t.SignedCents())
	s.publish(ctx, amqp.NewTransactionMessage(amqp.KindTransactionCreated, t.ID, t.WalletID))

	return t, nil
}

// UpdateTransaction persists the new version, reverts the old version's
// wallet effect, then applies the new one. The revert must come first so a
// same-wallet update nets out to the amount difference.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	old, err := s.store.GetTransaction(ctx, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	t.CreatedAt = old.CreatedAt

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.applyWalletDelta(ctx, old.WalletID, -old.SignedCents())
	s.applyWalletDelta(ctx, t.WalletID, t.SignedCents())
	s.publish(ctx, amqp.NewTransactionMessage(amqp.KindTransactionUpdated, t.ID, old.WalletID, t.WalletID))

	return t, nil
}

// DeleteTransaction removes the transaction and reverts its wallet effect.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	old, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.applyWalletDelta(ctx, old.WalletID, -old.SignedCents())
	s.publish(ctx, amqp.NewTransactionMessage(amqp.KindTransactionDeleted, id, old.WalletID))

	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *LedgerService) ListTransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	return s.store.ListTransactionsByMonth(ctx, year, month)
}

// applyWalletDelta adjusts the wallet's stored balance. A blank wallet id
// means the transaction is unassigned and touches no wallet. A vanished
// wallet is logged and skipped; the periodic reconciliation pass will settle
// any balance the wallet accrues if it reappears.
func (s *LedgerService) applyWalletDelta(ctx context.Context, walletID string, deltaCents int64) {
	t := core.Transaction{WalletID: walletID}
	if !t.HasWallet() {
		return
	}

	err := s.store.AdjustWalletBalance(ctx, walletID, deltaCents)
	if errors.Is(err, ports.ErrNotFound) {
		slog.WarnContext(ctx, "Wallet missing, skipping balance delta",
			"wallet_id", walletID, "delta_cents", deltaCents)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to adjust wallet balance",
			"wallet_id", walletID, "delta_cents", deltaCents, "error", err)
	}
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerMessage) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, msg); err != nil {
		// Don't fail the request, the write already succeeded locally.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", msg.Kind, "transaction_id", msg.TransactionID, "error", err)
	}
}
