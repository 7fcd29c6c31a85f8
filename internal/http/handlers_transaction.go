package http

import (
	"fmt"
	"net/http"
	"strconv"

	"cartera/internal/core"
	"cartera/internal/storage"
)

type createTransactionRequest struct {
	Type           string    `json:"type"`
	Amount         string    `json:"amount"`
	Date           core.Date `json:"date"`
	CategoryID     int64     `json:"category_id,omitempty"`
	CategoryName   string    `json:"category_name,omitempty"`
	AssetID        int64     `json:"asset_id,omitempty"`
	LiabilityID    int64     `json:"liability_id,omitempty"`
	RelatedAssetID int64     `json:"related_asset_id,omitempty"`
	Description    string    `json:"description,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	amount, err := bodyAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	uid := userID(r)
	categoryID := req.CategoryID
	if categoryID == 0 && req.CategoryName != "" {
		category, err := s.categories.ResolveByIDOrName(r.Context(), uid, 0, req.CategoryName)
		if err != nil {
			respondError(w, r, err)
			return
		}
		categoryID = category.ID
	}

	created, err := s.storage.CreateTransaction(r.Context(), core.Transaction{
		UserID:         uid,
		Type:           core.TransactionType(req.Type),
		Amount:         amount,
		Date:           req.Date,
		CategoryID:     categoryID,
		AssetID:        req.AssetID,
		LiabilityID:    req.LiabilityID,
		RelatedAssetID: req.RelatedAssetID,
		Description:    req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.dashboardCache.Purge()
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := storage.TransactionFilter{UserID: userID(r)}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, r, fmt.Errorf("invalid category_id %q", raw), http.StatusBadRequest)
			return
		}
		filter.CategoryID = id
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		txType := core.TransactionType(raw)
		if !txType.Valid() {
			respondError(w, r, core.ErrInvalidType)
			return
		}
		filter.Type = txType
	}

	var err error
	if filter.From, err = queryDate(r, "from"); err != nil {
		respondError(w, r, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		respondError(w, r, err)
		return
	}

	transactions, err := s.storage.ListTransactions(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.storage.DeleteTransaction(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.dashboardCache.Purge()
	respondJSON(w, http.StatusNoContent, nil)
}
