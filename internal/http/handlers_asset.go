package http

import (
	"net/http"

	"cartera/internal/core"
)

type createAssetRequest struct {
	Type             string    `json:"type,omitempty"`
	Name             string    `json:"name"`
	AcquisitionValue string    `json:"acquisition_value,omitempty"`
	AcquisitionDate  core.Date `json:"acquisition_date,omitempty"`
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, r, core.ErrEmptyName)
		return
	}

	asset := core.Asset{
		UserID:          userID(r),
		Type:            req.Type,
		Name:            req.Name,
		AcquisitionDate: req.AcquisitionDate,
	}
	if req.AcquisitionValue != "" {
		amount, err := bodyAmount(req.AcquisitionValue)
		if err != nil {
			respondError(w, r, err)
			return
		}
		asset.AcquisitionValue = amount
	}

	created, err := s.storage.CreateAsset(r.Context(), asset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAssetResponse(created))
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.storage.ListAssets(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetAsset returns the asset with its value resolved for an optional
// as_of query date; without one the latest snapshot is used.
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	asset, err := s.storage.GetAsset(r.Context(), userID(r), id)
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
		assetResponse
		CurrentValue *valueResponse `json:"current_value,omitempty"`
	}{assetResponse: toAssetResponse(asset)}

	if value, err := s.valuations.ResolveAssetValue(r.Context(), id, asOf); err == nil {
		resp.CurrentValue = &valueResponse{ValuationDate: value.ValuationDate, ValueCents: value.Value.Cents}
	}

	respondJSON(w, http.StatusOK, resp)
}

type upsertValueRequest struct {
	ValuationDate core.Date `json:"valuation_date"`
	Value         string    `json:"value"`
}

func (s *Server) handleUpsertAssetValue(w http.ResponseWriter, r *http.Request) {
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

	// Ownership check before touching the snapshot table.
	if _, err := s.storage.GetAsset(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	err = s.storage.UpsertAssetValue(r.Context(), core.AssetValue{
		AssetID:       id,
		ValuationDate: req.ValuationDate,
		Value:         amount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, valueResponse{ValuationDate: req.ValuationDate, ValueCents: amount.Cents})
}

func (s *Server) handleListAssetValues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if _, err := s.storage.GetAsset(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	values, err := s.storage.ListAssetValues(r.Context(), id)
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

func (s *Server) handleDeleteAssetValue(w http.ResponseWriter, r *http.Request) {
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
	if _, err := s.storage.GetAsset(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.storage.DeleteAssetValue(r.Context(), id, date); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
