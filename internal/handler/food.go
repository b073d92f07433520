package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/auth"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/service"
)

// FoodHandler serves the listing catalog and donor operations.
type FoodHandler struct {
	foods  *service.FoodService
	logger *slog.Logger
}

func NewFoodHandler(foods *service.FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{foods: foods, logger: logger}
}

// actor is the email bound by auth.RequireAuth, or "" on open routes.
func actor(r *http.Request) string {
	id, _ := auth.IdentityFromContext(r.Context())
	return id.Email
}

// emailParam returns the {email} path segment decoded. chi matches on the
// raw path, so an address sent as donor%40example.com arrives escaped.
func emailParam(r *http.Request) (string, error) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		return "", apperror.ValidationFailed("email", "email is not a valid path segment")
	}
	return email, nil
}

// HandleList returns Available listings.
//
// HTTP: GET /foods?search=rice&sort=asc
func (h *FoodHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sort, err := service.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}
	foods, err := h.foods.ListAvailable(r.Context(), r.URL.Query().Get("search"), sort)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// HTTP: GET /featured-foods
func (h *FoodHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foods.Featured(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// HandleGet answers with the listing, or a JSON null when there is none.
//
// HTTP: GET /food/{id}
func (h *FoodHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	food, err := h.foods.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// HTTP: GET /foods/{email}  (auth; email must be the caller's)
func (h *FoodHandler) HandleByDonor(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	foods, err := h.foods.ByDonor(r.Context(), actor(r), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// HTTP: POST /foods  (auth)
func (h *FoodHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var food model.FoodListing
	if err := decodeJSON(w, r, &food); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.foods.Create(r.Context(), actor(r), &food)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUpsert merges the body into the listing, creating it if needed.
//
// HTTP: PUT /food/{id}  (auth; donor only)
func (h *FoodHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var patch model.FoodPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.foods.Upsert(r.Context(), actor(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HTTP: PATCH /food/{id}  (auth) body {"foodStatus": "Requested"}
func (h *FoodHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FoodStatus *string `json:"foodStatus"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.foods.SetStatus(r.Context(), chi.URLParam(r, "id"), body.FoodStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HTTP: DELETE /food/{id}  (auth; donor only)
func (h *FoodHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.foods.Delete(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
