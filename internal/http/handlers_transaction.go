package http

import (
	"errors"
	"net/http"

	"moneta/internal/core"
	"moneta/internal/log"
	"moneta/internal/ports"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txs []core.Transaction
		err error
	)
	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		year, month, perr := parseYearMonth(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		txs, err = s.ledgerSvc.ListTransactionsByMonth(r.Context(), year, month)
	} else {
		txs, err = s.ledgerSvc.ListTransactions(r.Context())
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list transactions", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledgerSvc.CreateTransaction(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to create transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "create transaction")
		return
	}

	s.invalidateMonth(created.Date.Year(), created.Date.Month())
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledgerSvc.GetTransaction(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to get transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "get transaction")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = r.PathValue("id")

	old, err := s.ledgerSvc.GetTransaction(r.Context(), t.ID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "update transaction")
		return
	}

	updated, err := s.ledgerSvc.UpdateTransaction(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "update transaction")
		return
	}

	// Both the old and new month aggregates are stale now.
	s.invalidateMonth(old.Date.Year(), old.Date.Month())
	s.invalidateMonth(updated.Date.Year(), updated.Date.Month())
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	old, err := s.ledgerSvc.GetTransaction(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "delete transaction")
		return
	}

	if err := s.ledgerSvc.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "delete transaction")
		return
	}

	s.invalidateMonth(old.Date.Year(), old.Date.Month())
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrEmptyID) ||
		errors.Is(err, core.ErrDescriptionTooLong)
}
