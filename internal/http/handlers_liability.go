package http

import (
	"net/http"

	"cartera/internal/core"
)

type createLiabilityRequest struct {
	Type      string    `json:"type,omitempty"`
	Name      string    `json:"name"`
	Principal string    `json:"principal,omitempty"`
	StartDate core.Date `json:"start_date,omitempty"`
	EndDate   core.Date `json:"end_date,omitempty"`
}

func (s *Server) handleCreateLiability(w http.ResponseWriter, r *http.Request) {
	var req createLiabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, r, core.ErrEmptyName)
		return
	}
	if !req.EndDate.IsZero() && !req.StartDate.IsZero() && req.EndDate.Before(req.StartDate) {
		respondError(w, r, core.ErrInvalidDateRange)
		return
	}

	liability := core.Liability{
		UserID:    userID(r),
		Type:      req.Type,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Principal != "" {
		amount, err := bodyAmount(req.Principal)
		if err != nil {
			respondError(w, r, err)
			return
		}
		liability.Principal = amount
	}

	created, err := s.storage.CreateLiability(r.Context(), liability)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toLiabilityResponse(created))
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, r *http.Request) {
	liabilities, err := s.storage.ListLiabilities(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]liabilityResponse, 0, len(liabilities))
	for _, l := range liabilities {
		out = append(out, toLiabilityResponse(l))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLiability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	liability, err := s.storage.GetLiability(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	asOf, err := queryDate(r, "as_of")
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := struct {
		liabilityResponse
		CurrentValue *valueResponse    `json:"current_value,omitempty"`
		Interest     *interestResponse `json:"interest,omitempty"`
	}{liabilityResponse: toLiabilityResponse(liability)}

	if value, err := s.valuations.ResolveLiabilityValue(r.Context(), id, asOf); err == nil {
		resp.CurrentValue = &valueResponse{ValuationDate: value.ValuationDate, ValueCents: value.Value.Cents}
	}
	if rate, ok, err := s.valuations.ResolveLiabilityRate(r.Context(), liability); err == nil && ok {
		resp.Interest = &interestResponse{
			ID:        rate.ID,
			Rate:      rate.Rate,
			Type:      string(rate.Type),
			StartDate: rate.StartDate,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertLiabilityValue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req upsertValueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.ValuationDate.IsZero() {
		respondError(w, r, core.ErrInvalidDate)
		return
	}
	amount, err := bodyAmount(req.Value)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := s.storage.GetLiability(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	err = s.storage.UpsertLiabilityValue(r.Context(), core.LiabilityValue{
		LiabilityID:   id,
		ValuationDate: req.ValuationDate,
		Value:         amount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, valueResponse{ValuationDate: req.ValuationDate, ValueCents: amount.Cents})
}

func (s *Server) handleListLiabilityValues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if _, err := s.storage.GetLiability(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	values, err := s.storage.ListLiabilityValues(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]valueResponse, 0, len(values))
	for _, v := range values {
		out = append(out, valueResponse{ValuationDate: v.ValuationDate, ValueCents: v.Value.Cents})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteLiabilityValue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := s.storage.GetLiability(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.storage.DeleteLiabilityValue(r.Context(), id, date); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type createInterestRequest struct {
	Rate      float64   `json:"rate"`
	Type      string    `json:"type"`
	StartDate core.Date `json:"start_date,omitempty"`
}

func (s *Server) handleCreateInterest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req createInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	liability, err := s.storage.GetLiability(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// The active rate anchors to the liability's own start date.
	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = liability.StartDate
	}

	interestType := core.InterestType(req.Type)
	if interestType == "" {
		interestType = core.FixedRate
	}

	created, err := s.storage.CreateInterest(r.Context(), core.Interest{
		LiabilityID: id,
		Rate:        req.Rate,
		Type:        interestType,
		StartDate:   startDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, interestResponse{
		ID:        created.ID,
		Rate:      created.Rate,
		Type:      string(created.Type),
		StartDate: created.StartDate,
	})
}
