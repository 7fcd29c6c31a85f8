package http

import (
	"net/http"

	"cartera/internal/core"
)

type createTemplateRequest struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	CategoryID   int64     `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	AssetID      int64     `json:"asset_id,omitempty"`
	LiabilityID  int64     `json:"liability_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	Recurrence   string    `json:"recurrence,omitempty"`
	StartDate    core.Date `json:"start_date,omitempty"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	amount, err := bodyAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	recurrence := core.Recurrence(req.Recurrence)
	if req.Recurrence == "" {
		recurrence = core.RepeatNone
	}

	created, err := s.templates.Create(r.Context(), core.TransactionTemplate{
		UserID:       userID(r),
		Name:         req.Name,
		Type:         core.TransactionType(req.Type),
		Amount:       amount,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		AssetID:      req.AssetID,
		LiabilityID:  req.LiabilityID,
		Description:  req.Description,
		Recurrence:   recurrence,
		StartDate:    req.StartDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTemplateResponse(created))
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.List(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

type applyTemplateRequest struct {
	Date core.Date `json:"date,omitempty"`
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req applyTemplateRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
	}

	transactionID, err := s.templates.Apply(r.Context(), userID(r), id, req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.dashboardCache.Purge()
	respondJSON(w, http.StatusCreated, map[string]int64{"transaction_id": transactionID})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.templates.Delete(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
