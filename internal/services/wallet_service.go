package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneta/internal/core"
	"moneta/internal/ports"
)

// WalletService owns wallet lifecycle. The stored balance is derived state,
// so updates never take a balance from the caller.
type WalletService struct {
	store ports.Store
}

func NewWalletService(store ports.Store) *WalletService {
	return &WalletService{store: store}
}

// CreateWallet persists a new wallet. A fresh wallet has no transactions,
// so its balance starts at the opening balance.
func (s *WalletService) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	w.Balance = w.OpeningBalance

	if err := s.store.CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
	return w, nil
}

// UpdateWallet persists metadata changes. Changing the opening balance
// shifts the stored balance by the same amount, since every computed
// balance is anchored on it.
func (s *WalletService) UpdateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}

	existing, err := s.store.GetWallet(ctx, w.ID)
	if err != nil {
		return core.Wallet{}, fmt.Errorf("load wallet: %w", err)
	}

	openingDelta := w.OpeningBalance.Cents - existing.OpeningBalance.Cents
	w.Balance = core.Money{Cents: existing.Balance.Cents + openingDelta}
	w.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("update wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) DeleteWallet(ctx context.Context, id string) error {
	return s.store.DeleteWallet(ctx, id)
}

func (s *WalletService) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	return s.store.GetWallet(ctx, id)
}

func (s *WalletService) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	return s.store.ListWallets(ctx)
}
