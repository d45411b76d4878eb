package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/membership"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

func userIDFrom(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP status codes. The
// ledger's validation failures are 400s, membership violations 403,
// missing records 404, uniqueness conflicts 409, and a zero-sum
// violation — an internal invariant break — is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidParticipants),
		errors.Is(err, ledger.ErrNotAGroupMember),
		errors.Is(err, membership.ErrEmptyName),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, membership.ErrNotCreator):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, storage.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrUnbalancedLedger):
		slog.Error("Ledger invariant violation", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireMember checks that the authenticated user belongs to the
// group, writing the appropriate error response otherwise. Returns the
// user ID and whether the request may proceed.
func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, groupID string) (string, bool) {
	userID := userIDFrom(r)
	ok, err := s.groups.IsMember(r.Context(), groupID, userID)
	if err != nil {
		writeServiceError(w, err)
		return "", false
	}
	if !ok {
		writeError(w, http.StatusForbidden, "you must be a member of this group")
		return "", false
	}
	return userID, true
}
