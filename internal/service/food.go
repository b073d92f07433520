// Package service holds the business rules between the HTTP handlers and the
// store: validation, status gating, ownership checks and amount conversion.
//
//	Handler (HTTP) → Service (rules) → Repository (SQLite) / Gateway (Stripe)
//
// Services take the caller's email (the "actor") as a plain string rather
// than an HTTP request, so they know nothing about cookies or status codes.
// They return apperror values and the handler layer maps those to HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/repository"
)

// FeaturedLimit caps the featured-foods shelf.
const FeaturedLimit = 6

// FoodService handles listing business logic.
type FoodService struct {
	repo   repository.FoodRepository
	logger *slog.Logger
}

func NewFoodService(repo repository.FoodRepository, logger *slog.Logger) *FoodService {
	return &FoodService{
		repo:   repo,
		logger: logger,
	}
}

// ParseSort turns the ?sort= query value into a direction. Empty means
// unsorted (id order).
func ParseSort(raw string) (repository.SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return repository.SortNone, nil
	case "asc":
		return repository.SortAsc, nil
	case "desc":
		return repository.SortDesc, nil
	default:
		return "", apperror.ValidationFailed("sort", "sort must be asc or desc")
	}
}

// ListAvailable returns the public catalog: only Available listings, narrowed
// by a case-insensitive name search when one is given.
func (s *FoodService) ListAvailable(ctx context.Context, search string, sort repository.SortDirection) ([]model.FoodListing, error) {
	foods, err := s.repo.ListFoods(ctx, repository.FoodQuery{
		Status: model.StatusAvailable,
		Search: strings.TrimSpace(search),
		Sort:   sort,
	})
	if err != nil {
		return nil, s.upstream("listing foods", err)
	}
	return foods, nil
}

// Featured returns up to FeaturedLimit Available listings, largest quantity
// first. Equal quantities fall back to id order so the shelf is stable.
func (s *FoodService) Featured(ctx context.Context) ([]model.FoodListing, error) {
	foods, err := s.repo.TopFoodsByQuantity(ctx, model.StatusAvailable, FeaturedLimit)
	if err != nil {
		return nil, s.upstream("listing featured foods", err)
	}
	return foods, nil
}

// Get returns the listing or nil when there is none. A missing listing is
// not an error here: the catalog answers "nothing" rather than 404.
func (s *FoodService) Get(ctx context.Context, id string) (*model.FoodListing, error) {
	food, err := s.repo.GetFood(ctx, strings.TrimSpace(id))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.upstream("fetching food", err)
	}
	return food, nil
}

// ByDonor lists every listing (any status) posted by email. The caller must
// be that donor.
func (s *FoodService) ByDonor(ctx context.Context, actor, email string) ([]model.FoodListing, error) {
	if err := requireSelf(actor, email); err != nil {
		return nil, err
	}
	foods, err := s.repo.FoodsByDonor(ctx, email)
	if err != nil {
		return nil, s.upstream("listing donor foods", err)
	}
	return foods, nil
}

// Create stores a new listing posted by actor.
func (s *FoodService) Create(ctx context.Context, actor string, food *model.FoodListing) (*model.InsertResult, error) {
	food.FoodName = strings.TrimSpace(food.FoodName)
	if food.FoodName == "" {
		return nil, apperror.Required("foodName")
	}
	if food.FoodQuantity < 0 {
		return nil, apperror.ValidationFailed("foodQuantity", "foodQuantity must not be negative")
	}
	if food.FoodStatus == "" {
		food.FoodStatus = model.StatusAvailable
	}
	email, err := ownerEmail(actor, food.DonatorEmail, "donatorEmail")
	if err != nil {
		return nil, err
	}
	food.DonatorEmail = email

	if err := s.repo.CreateFood(ctx, food); err != nil {
		return nil, s.upstream("creating food", err)
	}

	s.logger.Info("food listed",
		slog.String("id", food.ID),
		slog.String("donator", food.DonatorEmail),
	)
	return &model.InsertResult{Acknowledged: true, InsertedID: food.ID}, nil
}

// Upsert merges patch into the listing, creating it under id when absent.
// Only the donor may change an existing listing, and nobody can hand a
// listing to another donor.
func (s *FoodService) Upsert(ctx context.Context, actor, id string, patch model.FoodPatch) (*model.UpdateResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.Required("id")
	}
	if patch.FoodName != nil && strings.TrimSpace(*patch.FoodName) == "" {
		return nil, apperror.ValidationFailed("foodName", "foodName must not be empty")
	}
	if patch.FoodQuantity != nil && *patch.FoodQuantity < 0 {
		return nil, apperror.ValidationFailed("foodQuantity", "foodQuantity must not be negative")
	}

	if actor == "" {
		return nil, apperror.Unauthorized("Unauthorized Access")
	}
	if patch.DonatorEmail != nil && *patch.DonatorEmail != actor {
		return nil, apperror.Forbidden("donatorEmail must be your own email")
	}

	result, err := s.repo.UpsertFood(ctx, id, actor, patch)
	if errors.Is(err, apperror.ErrForbidden) {
		return nil, err
	}
	if err != nil {
		return nil, s.upstream("updating food", err)
	}

	s.logger.Info("food upserted",
		slog.String("id", id),
		slog.Int64("matched", result.MatchedCount),
		slog.Int64("upserted", result.UpsertedCount),
	)
	return result, nil
}

// SetStatus replaces only the listing's status, e.g. "Requested" once a
// recipient claims it. Any signed-in caller may do this.
func (s *FoodService) SetStatus(ctx context.Context, id string, status *string) (*model.UpdateResult, error) {
	if status == nil || strings.TrimSpace(*status) == "" {
		return nil, apperror.Required("foodStatus")
	}
	result, err := s.repo.SetFoodStatus(ctx, strings.TrimSpace(id), strings.TrimSpace(*status))
	if err != nil {
		return nil, s.upstream("updating food status", err)
	}
	return result, nil
}

// Delete removes a listing. Deleting a listing that does not exist reports
// zero deletions rather than an error.
func (s *FoodService) Delete(ctx context.Context, actor, id string) (*model.DeleteResult, error) {
	id = strings.TrimSpace(id)

	if actor == "" {
		return nil, apperror.Unauthorized("Unauthorized Access")
	}

	result, err := s.repo.DeleteFood(ctx, id, actor)
	if errors.Is(err, apperror.ErrForbidden) {
		return nil, err
	}
	if err != nil {
		return nil, s.upstream("deleting food", err)
	}

	s.logger.Info("food deleted", slog.String("id", id))
	return result, nil
}

func (s *FoodService) upstream(op string, err error) error {
	s.logger.Error("store failure", slog.String("op", op), slog.String("error", err.Error()))
	return apperror.Upstream("An internal error occurred", fmt.Errorf("%s: %w", op, err))
}
