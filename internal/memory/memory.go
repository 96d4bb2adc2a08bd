// Package memory provides a mutex-guarded in-memory implementation of
// ports.Store. It is the default backend for local development and the
// store used by handler and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"moneta/internal/core"
	"moneta/internal/ports"
)

type Store struct {
	mu      sync.Mutex
	wallets []core.Wallet
	txs     []core.Transaction
	cats    []core.Category
	budgets []core.Budget
}

var _ ports.Store = (*Store)(nil)

func New(cats []core.Category) *Store {
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return &Store{cats: append([]core.Category(nil), cats...)}
}

// DefaultCategories returns the seed two-level category tree used when no
// categories are configured.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "cat-salary", Name: "Salary", Type: core.CategoryIncome, Icon: "briefcase"},
		{ID: "cat-other-income", Name: "Other Income", Type: core.CategoryIncome, Icon: "gift"},
		{ID: "cat-food", Name: "Food & Drink", Type: core.CategoryExpense, Icon: "utensils"},
		{ID: "cat-groceries", Name: "Groceries", Type: core.CategoryExpense, ParentID: "cat-food", Icon: "cart"},
		{ID: "cat-restaurants", Name: "Restaurants", Type: core.CategoryExpense, ParentID: "cat-food", Icon: "plate"},
		{ID: "cat-housing", Name: "Housing", Type: core.CategoryExpense, Icon: "home"},
		{ID: "cat-utilities", Name: "Utilities", Type: core.CategoryExpense, ParentID: "cat-housing", Icon: "bolt"},
		{ID: "cat-transport", Name: "Transport", Type: core.CategoryExpense, Icon: "bus"},
		{ID: "cat-leisure", Name: "Leisure", Type: core.CategoryExpense, Icon: "film"},
		{ID: "cat-loan", Name: "Loans", Type: core.CategoryLoan, Icon: "handshake"},
	}
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ports.ErrNotFound
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == t.ID {
			s.txs[i] = t
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) ListTransactionsByMonth(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s *Store) CreateWallet(_ context.Context, w core.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = append(s.wallets, w)
	return nil
}

func (s *Store) GetWallet(_ context.Context, id string) (core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return core.Wallet{}, ports.ErrNotFound
}

func (s *Store) UpdateWallet(_ context.Context, w core.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == w.ID {
			s.wallets[i] = w
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) DeleteWallet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == id {
			s.wallets = append(s.wallets[:i], s.wallets[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) ListWallets(_ context.Context) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Wallet(nil), s.wallets...), nil
}

// AdjustWalletBalance performs the read-modify-write under the store
// mutex, so concurrent deltas never interleave.
func (s *Store) AdjustWalletBalance(_ context.Context, id string, deltaCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == id {
			s.wallets[i].Balance.Cents += deltaCents
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) SetWalletBalance(_ context.Context, id string, cents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == id {
			s.wallets[i].Balance.Cents = cents
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].CategoryID == b.CategoryID &&
			s.budgets[i].Year == b.Year && s.budgets[i].Month == b.Month {
			s.budgets[i] = b
			return nil
		}
	}
	s.budgets = append(s.budgets, b)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, year, month int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].CategoryID, out[j].CategoryID) < 0
	})
	return out, nil
}

func (s *Store) ReadMonthOverview(_ context.Context, year, month int) (core.MonthOverview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SummarizeMonth(year, month, s.txs, s.cats), nil
}
