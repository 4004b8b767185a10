package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/brevio/internal/interfaces"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// ErrorCode maps a pipeline failure to the stable machine-readable code
// clients switch on.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, interfaces.ErrMalformed):
		return "malformed_document"
	case errors.Is(err, interfaces.ErrUnreachable):
		return "source_unreachable"
	case errors.Is(err, interfaces.ErrEmpty):
		return "empty_document"
	case errors.Is(err, interfaces.ErrBackendUnreachable):
		return "backend_unreachable"
	case errors.Is(err, interfaces.ErrModelNotFound):
		return "model_not_found"
	case errors.Is(err, interfaces.ErrStreamFault):
		return "stream_fault"
	default:
		return "internal_error"
	}
}

// ErrorStatus maps a pipeline failure to the HTTP status used when the
// failure happens before any streaming starts.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrMalformed), errors.Is(err, interfaces.ErrEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interfaces.ErrUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, interfaces.ErrBackendUnreachable):
		return http.StatusServiceUnavailable
	case errors.Is(err, interfaces.ErrModelNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
