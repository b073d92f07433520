package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/service"
)

// RequestHandler serves food requests.
type RequestHandler struct {
	requests *service.RequestService
	logger   *slog.Logger
}

func NewRequestHandler(requests *service.RequestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

// HTTP: POST /request-food  (auth)
func (h *RequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.FoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.requests.Create(r.Context(), actor(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HTTP: GET /requested-foods/{email}  (auth; email must be the caller's)
func (h *RequestHandler) HandleByRequester(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reqs, err := h.requests.ByRequester(r.Context(), actor(r), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}
