package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"budgetme/internal/core"
	"budgetme/internal/report"
)

const reportCacheKey = "dashboard"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the core sentinel errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrEntryNotFound),
		errors.Is(err, core.ErrBankNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidParameters),
		errors.Is(err, core.ErrInvalidRange),
		errors.Is(err, core.ErrDaysCountMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// buildReport returns the cached render model, rebuilding it after mutations.
func (s *Server) buildReport() *report.PlanReport {
	if cached, ok := s.reportCache.Get(reportCacheKey); ok {
		return cached
	}
	var r *report.PlanReport
	_ = s.service.WithPlan(func(b *core.Budget) error {
		r = report.Build(s.service.PlanName(), b)
		return nil
	})
	s.reportCache.Set(reportCacheKey, r)
	return r
}

func (s *Server) invalidateReport() {
	s.reportCache.Delete(reportCacheKey)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := s.buildReport()
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type monthSummary struct {
	Month        int    `json:"month"`
	Name         string `json:"name"`
	BalanceCents int64  `json:"balance_cents"`
	RunningCents int64  `json:"running_cents"`
}

type planSummary struct {
	Plan              string         `json:"plan"`
	Year              int            `json:"year"`
	DaysOf            int            `json:"days_of"`
	Start             int            `json:"start"`
	End               int            `json:"end"`
	FinalBalanceCents int64          `json:"final_balance_cents"`
	FinalBalance      string         `json:"final_balance"`
	Months            []monthSummary `json:"months"`
}

func (s *Server) handlePlanSummary(w http.ResponseWriter, r *http.Request) {
	var summary planSummary
	err := s.service.WithPlan(func(b *core.Budget) error {
		summary = planSummary{
			Plan:              s.service.PlanName(),
			Year:              b.Year,
			DaysOf:            b.DaysOf,
			Start:             b.Start,
			End:               b.End,
			FinalBalanceCents: b.FinalBalance().Cents,
			FinalBalance:      b.FinalBalance().Format(),
		}
		for m := b.Start; m <= b.End; m++ {
			name, err := core.MonthName(m)
			if err != nil {
				return err
			}
			summary.Months = append(summary.Months, monthSummary{
				Month:        m,
				Name:         name,
				BalanceCents: b.MonthBalance(m).Cents,
				RunningCents: b.RunningBalance(m).Cents,
			})
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePlanSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type categoryBalance struct {
		Name         string `json:"name"`
		BalanceCents int64  `json:"balance_cents"`
		Balance      string `json:"balance"`
	}
	var out []categoryBalance
	_ = s.service.WithPlan(func(b *core.Budget) error {
		for _, ca := range b.BalancesByCategory() {
			out = append(out, categoryBalance{
				Name:         ca.Name,
				BalanceCents: ca.Balance.Cents,
				Balance:      ca.Balance.Format(),
			})
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNegative(w http.ResponseWriter, r *http.Request) {
	type negative struct {
		Month        int   `json:"month"`
		BalanceCents int64 `json:"balance_cents"`
		Clean        bool  `json:"clean"`
	}
	var out negative
	_ = s.service.WithPlan(func(b *core.Budget) error {
		analysis := b.DetectNegativeBalance()
		out = negative{
			Month:        analysis.Month,
			BalanceCents: analysis.Balance.Cents,
			Clean:        analysis.Month == 0,
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	type savings struct {
		SavingsCents int64  `json:"savings_cents"`
		Savings      string `json:"savings"`
	}
	var out savings
	_ = s.service.WithPlan(func(b *core.Budget) error {
		v := b.PotentialSavings()
		out = savings{SavingsCents: v.Cents, Savings: v.Format()}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVariance(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month parameter")
		return
	}

	type variance struct {
		Account       string `json:"account"`
		Month         int    `json:"month"`
		VarianceCents int64  `json:"variance_cents"`
	}
	var out variance
	werr := s.service.WithPlan(func(b *core.Budget) error {
		v, err := b.VarianceForMonth(name, month)
		if err != nil {
			return err
		}
		out = variance{Account: name, Month: month, VarianceCents: v.Cents}
		return nil
	})
	if werr != nil {
		writeDomainError(w, werr)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditor == nil {
		writeError(w, http.StatusServiceUnavailable, "audit trail not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.auditor.ListAudit(r.Context(), s.service.PlanName(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type correctRequest struct {
	Account string `json:"account"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	Amount  string `json:"amount"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.service.CorrectTransaction(r.Context(), req.Account, req.Month, req.Day, amount); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateReport()
	writeJSON(w, http.StatusOK, map[string]string{"status": "corrected"})
}

type confirmRequest struct {
	Account string `json:"account"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.service.ConfirmTransaction(r.Context(), req.Account, req.Month, req.Day); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateReport()
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (s *Server) handleUnconfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.service.RemoveConfirmTransaction(r.Context(), req.Account, req.Month, req.Day); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateReport()
	writeJSON(w, http.StatusOK, map[string]string{"status": "unconfirmed"})
}

type transferRequest struct {
	Account string `json:"account"`
	Bank    string `json:"bank"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.service.TransferToBank(r.Context(), req.Account, req.Bank); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateReport()
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

type protectRequest struct {
	Account string `json:"account"`
}

func (s *Server) handleProtect(w http.ResponseWriter, r *http.Request) {
	var req protectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.service.PreventNegativeBalance(r.Context(), req.Account); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateReport()
	writeJSON(w, http.StatusOK, map[string]string{"status": "protected"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export not configured")
		return
	}
	if err := s.exporter.ExportPlan(r.Context(), s.buildReport()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "exported"})
}
