package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	WalletCash    WalletType = "cash"
	WalletBank    WalletType = "bank"
	WalletCredit  WalletType = "credit"
	WalletSavings WalletType = "savings"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryLoan    CategoryType = "loan"
)

type (
	TransactionType string
	WalletType      string
	CategoryType    string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		CategoryID  string
		WalletID    string // blank means unassigned: excluded from all wallet balances
		Date        Date
		Description string
		Note        string
		WithPerson  string
		CreatedAt   time.Time
	}

	Wallet struct {
		ID             string
		Name           string
		Color          string
		Icon           string
		Type           WalletType
		Balance        Money
		OpeningBalance Money
		IsDefault      bool
		CreatedAt      time.Time
	}

	Category struct {
		ID       string
		Name     string
		Type     CategoryType
		Color    string
		Icon     string
		ParentID string // empty for parent categories; at most one level of children
	}

	Budget struct {
		CategoryID string
		Year       int
		Month      int
		Limit      Money
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyID            = errors.New("empty id")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// Valid reports whether the transaction type is one of the closed set.
func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (wt WalletType) Valid() bool {
	switch wt {
	case WalletCash, WalletBank, WalletCredit, WalletSavings:
		return true
	default:
		return false
	}
}

func (ct CategoryType) Valid() bool {
	switch ct {
	case CategoryIncome, CategoryExpense, CategoryLoan:
		return true
	default:
		return false
	}
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date (timezone-naive).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// SignedCents returns the transaction's contribution to a wallet balance:
// positive cents for income, negative for expense.
func (t Transaction) SignedCents() int64 {
	if t.Type == Income {
		return t.Amount.Cents
	}
	return -t.Amount.Cents
}

// HasWallet reports whether the transaction is assigned to a wallet.
// A blank or whitespace-only wallet id counts as unassigned.
func (t Transaction) HasWallet() bool {
	return strings.TrimSpace(t.WalletID) != ""
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if !w.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyID
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
