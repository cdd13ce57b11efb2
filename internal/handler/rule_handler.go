package handler

import (
	"net/http"

	"kart-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RuleHandler exposes the active pricing catalog.
type RuleHandler struct {
	service service.RuleService
	logger  zerolog.Logger
}

// NewRuleHandler creates a new rule handler.
func NewRuleHandler(service service.RuleService, logger zerolog.Logger) *RuleHandler {
	return &RuleHandler{
		service: service,
		logger:  logger.With().Str("handler", "rule").Logger(),
	}
}

// List handles GET /api/rules requests.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()), h.logger)
}

// Get handles GET /api/rules/{code} requests.
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, rule, h.logger)
}
