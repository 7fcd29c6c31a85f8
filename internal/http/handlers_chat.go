package http

import (
	"fmt"
	"net/http"
	"strings"

	"cartera/internal/core"
)

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, r, fmt.Errorf("question cannot be empty"), http.StatusBadRequest)
		return
	}

	reply, err := s.chat.Ask(r.Context(), userID(r), req.Question)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// handleContextDocument exposes the raw financial context document, mainly
// for inspection and debugging of what the chat model sees.
func (s *Server) handleContextDocument(w http.ResponseWriter, r *http.Request) {
	asOf, err := queryDate(r, "as_of")
	if err != nil {
		respondError(w, r, err)
		return
	}

	document := s.contexts.Build(r.Context(), userID(r), asOf)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(document))
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, r, core.ErrEmptyName)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), core.User{Name: req.Name, Email: req.Email})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

type importRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab"`
}

// handleEnqueueImport publishes an import job for the worker and returns
// 202; the import itself runs asynchronously.
func (s *Server) handleEnqueueImport(w http.ResponseWriter, r *http.Request) {
	if s.importJobs == nil {
		respondError(w, r, fmt.Errorf("import queue not configured"), http.StatusServiceUnavailable)
		return
	}

	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.SpreadsheetID == "" || req.Tab == "" {
		respondError(w, r, fmt.Errorf("spreadsheet_id and tab are required"), http.StatusBadRequest)
		return
	}

	if err := s.importJobs.PublishImportJob(r.Context(), userID(r), req.SpreadsheetID, req.Tab); err != nil {
		respondError(w, r, fmt.Errorf("enqueue import: %w: %v", core.ErrExternalService, err))
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
