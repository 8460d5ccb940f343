package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qalamdan/porsesh/internal/policy"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// writeError maps policy error kinds to HTTP statuses. A vote conflict
// carries the caller's preserved vote so clients can disambiguate.
func writeError(w http.ResponseWriter, err error) {
	var conflict *policy.ConflictError
	switch {
	case errors.As(err, &conflict):
		body := map[string]any{"error": "conflict"}
		if conflict.Vote != nil {
			body["vote"] = conflict.Vote
		}
		writeJSON(w, body, http.StatusConflict)
	case errors.Is(err, policy.ErrUnauthenticated):
		writeJSON(w, map[string]any{"error": "unauthenticated"}, http.StatusUnauthorized)
	case errors.Is(err, policy.ErrForbidden):
		writeJSON(w, map[string]any{"error": "forbidden"}, http.StatusForbidden)
	case errors.Is(err, policy.ErrNotFound):
		writeJSON(w, map[string]any{"error": "not found"}, http.StatusNotFound)
	case errors.Is(err, policy.ErrConflict):
		writeJSON(w, map[string]any{"error": "conflict"}, http.StatusConflict)
	case errors.Is(err, policy.ErrValidation):
		writeJSON(w, map[string]any{"error": err.Error()}, http.StatusUnprocessableEntity)
	default:
		logger.Error("internal error", "err", err)
		writeJSON(w, map[string]any{"error": "internal error"}, http.StatusInternalServerError)
	}
}
