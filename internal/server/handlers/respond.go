package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/heypico/waypoint/internal/maps"
	"github.com/heypico/waypoint/internal/validate"
)

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the uniform failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeDomainError maps a domain error onto its HTTP status. Unknown errors
// become an opaque 502 so provider internals never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, maps.ErrQuotaExhausted):
		writeError(w, http.StatusServiceUnavailable, "quota exceeded for this operation, try again later")
	case errors.Is(err, maps.ErrNotFound):
		writeError(w, http.StatusNotFound, "no results found")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream provider error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, validate.ErrEmptyMessage) ||
		errors.Is(err, validate.ErrMessageTooLong) ||
		errors.Is(err, validate.ErrEmptyQuery) ||
		errors.Is(err, validate.ErrQueryTooLong) ||
		errors.Is(err, validate.ErrAddressLength) ||
		errors.Is(err, validate.ErrInvalidCoords) ||
		errors.Is(err, validate.ErrInvalidRadius) ||
		errors.Is(err, validate.ErrInvalidPlaceID)
}
