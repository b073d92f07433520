package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/service"
)

// PaymentHandler stages payment intents and records reported payments.
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *slog.Logger
}

func NewPaymentHandler(payments *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

type intentRequest struct {
	Price *float64 `json:"price"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// HandleCreateIntent returns the client secret the browser uses to complete
// the payment. The price is in major units; the gateway is charged in cents.
//
// HTTP: POST /create-payment-intent  (auth) body {"price": 10}
func (h *PaymentHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var body intentRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	intent, err := h.payments.CreateIntent(r.Context(), body.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intentResponse{ClientSecret: intent.ClientSecret})
}

// HTTP: POST /payments  (auth)
func (h *PaymentHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var p model.Payment
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.payments.Record(r.Context(), actor(r), &p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HTTP: GET /payments/{email}  (auth; email must be the caller's)
func (h *PaymentHandler) HandleByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	payments, err := h.payments.ByEmail(r.Context(), actor(r), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
