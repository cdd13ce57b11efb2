package handler

import (
	"encoding/json"
	"net/http"

	"kart-checkout/internal/model"
	"kart-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the size of a checkout request body.
const maxBodyBytes = 1 << 20

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Checkout(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	status := http.StatusOK
	if resp.ReceiptID != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp, h.logger)
}

// GetReceipt handles GET /api/checkouts/{id} requests.
func (h *CheckoutHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, model.ErrInvalidReceiptID, h.logger)
		return
	}

	receipt, err := h.service.GetReceipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, receipt, h.logger)
}
