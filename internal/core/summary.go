package core

import "sort"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	CategoryID string
	Name       string
	Amount     Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Income     Money
	Expense    Money
	Net        Money
	ByCategory []CategoryAmount
}

// BudgetStatus reports monthly spending against a category budget.
type BudgetStatus struct {
	CategoryID string
	Name       string
	Limit      Money
	Spent      Money
	Remaining  Money
	Over       bool
}

// SummarizeMonth aggregates the given transactions into a month overview.
// Only transactions dated in the given year+month contribute; expense
// totals per category are computed for display grouping. Categories are
// used for naming only and never affect the math.
func SummarizeMonth(year, month int, txs []Transaction, cats []Category) MonthOverview {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	ov := MonthOverview{Year: year, Month: month}
	perCategory := make(map[string]int64)
	for _, t := range txs {
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		switch t.Type {
		case Income:
			ov.Income.Cents += t.Amount.Cents
		case Expense:
			ov.Expense.Cents += t.Amount.Cents
			perCategory[t.CategoryID] += t.Amount.Cents
		}
	}
	ov.Net.Cents = ov.Income.Cents - ov.Expense.Cents

	for id, cents := range perCategory {
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{
			CategoryID: id,
			Name:       names[id],
			Amount:     Money{Cents: cents},
		})
	}
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		if ov.ByCategory[i].Amount.Cents != ov.ByCategory[j].Amount.Cents {
			return ov.ByCategory[i].Amount.Cents > ov.ByCategory[j].Amount.Cents
		}
		return ov.ByCategory[i].CategoryID < ov.ByCategory[j].CategoryID
	})
	return ov
}

// BudgetStatuses computes spending against each budget for its own
// year+month. Income transactions never count against a budget.
func BudgetStatuses(budgets []Budget, txs []Transaction, cats []Category) []BudgetStatus {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		for _, t := range txs {
			if t.Type != Expense || t.CategoryID != b.CategoryID {
				continue
			}
			if t.Date.Year() != b.Year || t.Date.Month() != b.Month {
				continue
			}
			spent += t.Amount.Cents
		}
		out = append(out, BudgetStatus{
			CategoryID: b.CategoryID,
			Name:       names[b.CategoryID],
			Limit:      b.Limit,
			Spent:      Money{Cents: spent},
			Remaining:  Money{Cents: b.Limit.Cents - spent},
			Over:       spent > b.Limit.Cents,
		})
	}
	return out
}
