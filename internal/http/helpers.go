package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"cartera/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the error to a status when none is forced: validation
// failures become 422, missing rows 404, conflicts 409, upstream failures
// 502, everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error, forcedStatus ...int) {
	status := http.StatusInternalServerError
	switch {
	case len(forcedStatus) > 0:
		status = forcedStatus[0]
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrNothingToReassign):
		status = http.StatusConflict
	case errors.Is(err, core.ErrExternalService):
		status = http.StatusBadGateway
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	}

	requestID, _ := r.Context().Value(requestIDKey).(string)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"status", status,
			"path", r.URL.Path,
			"request_id", requestID)
	}

	respondJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidPeriod,
		core.ErrInvalidType,
		core.ErrInvalidRecurrence,
		core.ErrInvalidDate,
		core.ErrInvalidDateRange,
		core.ErrEmptyName,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// userID resolves the acting user from the X-User-ID header or user_id
// query parameter, defaulting to 1 for single-user deployments.
func userID(r *http.Request) int64 {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		raw = r.URL.Query().Get("user_id")
	}
	if raw == "" {
		return 1
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 1
	}
	return id
}

// queryDate parses an optional ISO date query parameter; absent means zero.
func queryDate(r *http.Request, name string) (core.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return core.Date{}, nil
	}
	date, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return date, nil
}

// bodyAmount converts a decimal string ("12,50" or "12.50") to Money.
func bodyAmount(raw string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
