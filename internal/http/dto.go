package http

import (
	"fmt"

	"moneta/internal/core"
)

// transactionPayload is the request body for creating or updating a
// transaction. Amount is a decimal string ("12.34"); the sign is carried
// by Type.
type transactionPayload struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	CategoryID  string `json:"category_id"`
	WalletID    string `json:"wallet_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Note        string `json:"note"`
	WithPerson  string `json:"with_person"`
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date: %w", err)
	}
	return core.Transaction{
		Type:        core.TransactionType(sanitizeInput(p.Type)),
		Amount:      core.Money{Cents: cents},
		CategoryID:  sanitizeInput(p.CategoryID),
		WalletID:    sanitizeInput(p.WalletID),
		Date:        date,
		Description: sanitizeInput(p.Description),
		Note:        sanitizeInput(p.Note),
		WithPerson:  sanitizeInput(p.WithPerson),
	}, nil
}

type transactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	CategoryID  string `json:"category_id,omitempty"`
	WalletID    string `json:"wallet_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Note        string `json:"note,omitempty"`
	WithPerson  string `json:"with_person,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		CategoryID:  t.CategoryID,
		WalletID:    t.WalletID,
		Date:        t.Date.String(),
		Description: t.Description,
		Note:        t.Note,
		WithPerson:  t.WithPerson,
	}
}

type walletPayload struct {
	Name           string `json:"name"`
	Color          string `json:"color"`
	Icon           string `json:"icon"`
	Type           string `json:"type"`
	OpeningBalance string `json:"opening_balance"`
	IsDefault      bool   `json:"is_default"`
}

func (p walletPayload) toDomain() (core.Wallet, error) {
	var opening int64
	if s := sanitizeInput(p.OpeningBalance); s != "" && s != "0" {
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return core.Wallet{}, fmt.Errorf("opening_balance: %w", err)
		}
		opening = cents
	}
	return core.Wallet{
		Name:           sanitizeInput(p.Name),
		Color:          sanitizeInput(p.Color),
		Icon:           sanitizeInput(p.Icon),
		Type:           core.WalletType(sanitizeInput(p.Type)),
		OpeningBalance: core.Money{Cents: opening},
		IsDefault:      p.IsDefault,
	}, nil
}

type walletResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Color               string `json:"color,omitempty"`
	Icon                string `json:"icon,omitempty"`
	Type                string `json:"type"`
	Balance             string `json:"balance"`
	BalanceCents        int64  `json:"balance_cents"`
	OpeningBalance      string `json:"opening_balance"`
	OpeningBalanceCents int64  `json:"opening_balance_cents"`
	IsDefault           bool   `json:"is_default"`
}

func toWalletResponse(w core.Wallet) walletResponse {
	return walletResponse{
		ID:                  w.ID,
		Name:                w.Name,
		Color:               w.Color,
		Icon:                w.Icon,
		Type:                string(w.Type),
		Balance:             w.Balance.String(),
		BalanceCents:        w.Balance.Cents,
		OpeningBalance:      w.OpeningBalance.String(),
		OpeningBalanceCents: w.OpeningBalance.Cents,
		IsDefault:           w.IsDefault,
	}
}

type categoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color,omitempty"`
	Icon     string `json:"icon,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

type budgetPayload struct {
	CategoryID string `json:"category_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Limit      string `json:"limit"`
}

type budgetStatusResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name,omitempty"`
	Limit      string `json:"limit"`
	Spent      string `json:"spent"`
	Remaining  string `json:"remaining"`
	Over       bool   `json:"over"`
}

type categoryAmountResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name,omitempty"`
	Amount     string `json:"amount"`
}

type monthOverviewResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Income     string                   `json:"income"`
	Expense    string                   `json:"expense"`
	Net        string                   `json:"net"`
	ByCategory []categoryAmountResponse `json:"by_category"`
}

func toMonthOverviewResponse(ov core.MonthOverview) monthOverviewResponse {
	resp := monthOverviewResponse{
		Year:       ov.Year,
		Month:      ov.Month,
		Income:     ov.Income.String(),
		Expense:    ov.Expense.String(),
		Net:        ov.Net.String(),
		ByCategory: make([]categoryAmountResponse, 0, len(ov.ByCategory)),
	}
	for _, ca := range ov.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountResponse{
			CategoryID: ca.CategoryID,
			Name:       ca.Name,
			Amount:     ca.Amount.String(),
		})
	}
	return resp
}
