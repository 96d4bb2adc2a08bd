// Package ports defines the outbound store interfaces consumed by the
// service and HTTP layers. The SQLite repository and the in-memory store
// both satisfy Store.
package ports

import (
	"context"
	"errors"

	"moneta/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns the complete ledger.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ListTransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error)
	}

	WalletStore interface {
		CreateWallet(ctx context.Context, w core.Wallet) error
		GetWallet(ctx context.Context, id string) (core.Wallet, error)
		UpdateWallet(ctx context.Context, w core.Wallet) error
		DeleteWallet(ctx context.Context, id string) error
		ListWallets(ctx context.Context) ([]core.Wallet, error)
		// AdjustWalletBalance atomically adds deltaCents to the wallet's
		// stored balance. Returns ErrNotFound when the wallet is gone.
		AdjustWalletBalance(ctx context.Context, id string, deltaCents int64) error
		// SetWalletBalance overwrites the wallet's stored balance, used by
		// drift correction.
		SetWalletBalance(ctx context.Context, id string, cents int64) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	BudgetStore interface {
		UpsertBudget(ctx context.Context, b core.Budget) error
		ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error)
	}

	// DashboardReader provides the aggregated month overview.
	DashboardReader interface {
		ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error)
	}

	// Store is the full persistence surface the application needs.
	Store interface {
		TransactionStore
		WalletStore
		CategoryStore
		BudgetStore
		DashboardReader
	}
)
