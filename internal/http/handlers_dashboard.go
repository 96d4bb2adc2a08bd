package http

import (
	"context"
	"fmt"
	"net/http"

	"moneta/internal/core"
	"moneta/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list categories", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "list categories")
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{
			ID:       c.ID,
			Name:     c.Name,
			Type:     string(c.Type),
			Color:    c.Color,
			Icon:     c.Icon,
			ParentID: c.ParentID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(payload.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit: %v", err))
		return
	}
	b := core.Budget{
		CategoryID: sanitizeInput(payload.CategoryID),
		Year:       payload.Year,
		Month:      payload.Month,
		Limit:      core.Money{Cents: cents},
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpsertBudget(r.Context(), b); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to upsert budget", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "upsert budget")
		return
	}

	s.budgetCache.Delete(s.cacheKey(b.Year, b.Month))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	statuses, err := s.getBudgetStatuses(r.Context(), year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to compute budget statuses", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "list budgets")
		return
	}

	out := make([]budgetStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, budgetStatusResponse{
			CategoryID: st.CategoryID,
			Name:       st.Name,
			Limit:      st.Limit.String(),
			Spent:      st.Spent.String(),
			Remaining:  st.Remaining.String(),
			Over:       st.Over,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ov, err := s.getOverview(r.Context(), year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to read month overview",
			log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
		writeError(w, http.StatusInternalServerError, "month overview")
		return
	}
	writeJSON(w, http.StatusOK, toMonthOverviewResponse(ov))
}

func (s *Server) getOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	key := s.cacheKey(year, month)
	if ov, ok := s.overviewCache.Get(key); ok {
		return ov, nil
	}

	ov, err := s.store.ReadMonthOverview(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	s.overviewCache.Set(key, ov)
	return ov, nil
}

func (s *Server) getBudgetStatuses(ctx context.Context, year, month int) ([]core.BudgetStatus, error) {
	key := s.cacheKey(year, month)
	if statuses, ok := s.budgetCache.Get(key); ok {
		return statuses, nil
	}

	budgets, err := s.store.ListBudgets(ctx, year, month)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactionsByMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	statuses := core.BudgetStatuses(budgets, txs, cats)
	s.budgetCache.Set(key, statuses)
	return statuses, nil
}
