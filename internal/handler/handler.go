package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"aroha/internal/model"

	"github.com/rs/zerolog"
)

// statusByCode maps domain error codes to HTTP statuses. Anything unlisted
// is an unclassified fault and reports as 500.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:        http.StatusBadRequest,
	model.ErrCodeMissingField:       http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:    http.StatusBadRequest,
	model.ErrCodeInvalidDiscount:    http.StatusBadRequest,
	model.ErrCodeInvalidStatus:      http.StatusBadRequest,
	model.ErrCodeDeliveredFinal:     http.StatusBadRequest,
	model.ErrCodeEmptyOrder:         http.StatusBadRequest,
	model.ErrCodeUserExists:         http.StatusBadRequest,
	model.ErrCodeInvalidCredentials: http.StatusBadRequest,
	model.ErrCodeProductNotFound:    http.StatusNotFound,
	model.ErrCodeCartNotFound:       http.StatusNotFound,
	model.ErrCodeCartItemNotFound:   http.StatusNotFound,
	model.ErrCodeOrderNotFound:      http.StatusNotFound,
	model.ErrCodeUserNotFound:       http.StatusNotFound,
	model.ErrCodeUnauthorised:       http.StatusUnauthorized,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already gone; nothing useful left to do.
		return
	}
}

// writeError writes an error response with the given status code, error code
// and message. The success flag is always false so clients branching on it
// see the failure.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("error_code", code).
		Str("message", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
	})
}

// writeServiceError maps a service-layer error to an HTTP response. Domain
// errors carry their own code; anything else is an unclassified fault.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, err.Error(), logger)
}
