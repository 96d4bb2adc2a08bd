package http

import (
	"net/http"

	"moneta/internal/core"
	"moneta/internal/ledger"
	"moneta/internal/log"
)

type driftReportResponse struct {
	InSync  bool                `json:"in_sync"`
	Wallets []walletDriftDetail `json:"wallets"`
	Orphans []ledger.OrphanRef  `json:"orphans,omitempty"`
}

type walletDriftDetail struct {
	ledger.WalletDrift
	Stored     string `json:"stored"`
	Computed   string `json:"computed"`
	Difference string `json:"difference"`
}

func toDriftReportResponse(report ledger.Report) driftReportResponse {
	resp := driftReportResponse{
		InSync:  report.InSync(),
		Wallets: make([]walletDriftDetail, 0, len(report.Wallets)),
		Orphans: report.Orphans,
	}
	for _, w := range report.Wallets {
		resp.Wallets = append(resp.Wallets, walletDriftDetail{
			WalletDrift: w,
			Stored:      core.FormatCents(w.StoredCents),
			Computed:    core.FormatCents(w.ComputedCents),
			Difference:  core.FormatCents(w.DifferenceCents),
		})
	}
	return resp
}

// handleDriftReport reports drift without changing anything.
func (s *Server) handleDriftReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reconcileSvc.Diagnose(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to diagnose drift", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "diagnose drift")
		return
	}
	writeJSON(w, http.StatusOK, toDriftReportResponse(report))
}

// handleReconcile runs a full repair pass and returns the pre-correction
// report.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := s.reconcileSvc.Repair(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to reconcile", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "reconcile")
		return
	}

	s.metrics.reconcileRuns.Add(1)
	s.metrics.walletsRepaired.Add(int64(len(report.OutOfSync())))

	// Every cached aggregate may be stale after a repair.
	s.overviewCache.Purge()
	s.budgetCache.Purge()

	writeJSON(w, http.StatusOK, toDriftReportResponse(report))
}
