package http

import (
	"fmt"
	"net/http"

	"cartera/internal/core"
)

type budgetRequest struct {
	CategoryID int64     `json:"category_id"`
	Amount     string    `json:"amount"`
	Period     string    `json:"period"`
	StartDate  core.Date `json:"start_date,omitempty"`
	EndDate    core.Date `json:"end_date,omitempty"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	amount, err := bodyAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.budgets.Create(r.Context(), core.Budget{
		UserID:     userID(r),
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.storage.ListBudgets(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	amount, err := bodyAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.budgets.Update(r.Context(), core.Budget{
		ID:         id,
		UserID:     userID(r),
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.budgets.Delete(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleBudgetStatus reports spending against every budget. The optional
// start/end query dates pick the analysis window; without both the current
// month is analyzed.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		respondError(w, r, err)
		return
	}

	statuses, err := s.budgets.Status(r.Context(), userID(r), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toBudgetStatusResponse(st))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		respondError(w, r, err)
		return
	}

	uid := userID(r)
	cacheKey := fmt.Sprintf("%d/%s/%s", uid, start.ISO(), end.ISO())
	if cached, ok := s.dashboardCache.Get(cacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	metrics, err := s.dashboard.Metrics(r.Context(), uid, start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := dashboardResponse{
		TotalIncomeCents:  metrics.TotalIncome.Cents,
		TotalExpenseCents: metrics.TotalExpense.Cents,
		NetProfitCents:    metrics.NetProfit.Cents,
	}
	s.dashboardCache.Set(cacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}
