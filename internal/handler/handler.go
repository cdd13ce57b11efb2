package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"kart-checkout/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. The header is
// already sent when encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError writes an error response with the given status code, error code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).Str("message", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message}, logger)
}

// writeServiceError maps a service error onto an HTTP response. Domain errors
// keep their code; anything else is reported as an internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	writeError(w, statusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeValidation, model.ErrCodeUnknownItem, model.ErrCodeInvalidReceiptID:
		return http.StatusBadRequest
	case model.ErrCodeReceiptNotFound, model.ErrCodeRuleNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
