package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hockey-pool-go/logging"
	"hockey-pool-go/services"
)

// errorResponse is the JSON body returned for failed requests
type errorResponse struct {
	Message string `json:"msg"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps a service error onto the HTTP status for its category:
// not-found, access-denied, conflict, or validation. Unrecognized errors
// are treated as internal and their details are kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrLeagueNotFound),
		errors.Is(err, services.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrNotLeagueMember),
		errors.Is(err, services.ErrNotLeagueCreator):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrLeagueNameTaken),
		errors.Is(err, services.ErrAlreadyLeagueMember),
		errors.Is(err, services.ErrMatchExists),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPredictionWindowClosed):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrLeaguePasswordMismatch),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})

	default:
		logging.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

// decodeBody decodes a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}
	return true
}
