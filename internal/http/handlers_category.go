package http

import (
	"net/http"

	"cartera/internal/core"
)

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	category, err := s.categories.Create(r.Context(), core.Category{
		UserID:   userID(r),
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleCategoryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	detail, err := s.categories.Detail(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCategoryDetailResponse(detail))
}

type reassignRequest struct {
	TargetCategoryID int64 `json:"target_category_id"`
}

func (s *Server) handleReassignCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req reassignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	moved, err := s.categories.Reassign(r.Context(), userID(r), id, req.TargetCategoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"moved": moved})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.categories.Delete(r.Context(), userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
