package http

import (
	"errors"
	"net/http"

	"moneta/internal/log"
	"moneta/internal/ports"
)

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.walletSvc.ListWallets(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list wallets", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "list wallets")
		return
	}

	out := make([]walletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		out = append(out, toWalletResponse(wallet))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var payload walletPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wallet, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.walletSvc.CreateWallet(r.Context(), wallet)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to create wallet", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "create wallet")
		return
	}
	writeJSON(w, http.StatusCreated, toWalletResponse(created))
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.walletSvc.GetWallet(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to get wallet", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "get wallet")
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wallet))
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var payload walletPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wallet, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wallet.ID = r.PathValue("id")

	updated, err := s.walletSvc.UpdateWallet(r.Context(), wallet)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update wallet", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "update wallet")
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(updated))
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	err := s.walletSvc.DeleteWallet(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete wallet", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "delete wallet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
