// Package repository declares the storage contracts the services depend on.
// The three collections are independent: no operation spans more than one.
package repository

import (
	"context"

	"github.com/sakif/sustaineats/internal/model"
)

// SortDirection orders listings by expiry date.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FoodQuery filters the listing catalog. Results are always tie-broken by id.
type FoodQuery struct {
	Status string        // exact match; required
	Search string        // case-insensitive substring of foodName; empty matches all
	Sort   SortDirection // on expiredDate
}

type FoodRepository interface {
	CreateFood(ctx context.Context, food *model.FoodListing) error
	GetFood(ctx context.Context, id string) (*model.FoodListing, error)
	ListFoods(ctx context.Context, q FoodQuery) ([]model.FoodListing, error)
	// TopFoodsByQuantity returns up to limit listings with the given status,
	// largest quantity first, ties broken by id ascending.
	TopFoodsByQuantity(ctx context.Context, status string, limit int) ([]model.FoodListing, error)
	FoodsByDonor(ctx context.Context, email string) ([]model.FoodListing, error)
	// UpsertFood merges patch into the listing with this id, creating the
	// listing when it does not exist. A new listing belongs to owner and
	// starts Available unless the patch says otherwise. An existing listing
	// donated by someone other than owner is left alone and
	// apperror.ErrForbidden is returned; an empty owner skips the check.
	UpsertFood(ctx context.Context, id, owner string, patch model.FoodPatch) (*model.UpdateResult, error)
	SetFoodStatus(ctx context.Context, id, status string) (*model.UpdateResult, error)
	// DeleteFood removes the listing if owner donated it (same owner rules
	// as UpsertFood). A missing listing deletes nothing and is not an error.
	DeleteFood(ctx context.Context, id, owner string) (*model.DeleteResult, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *model.FoodRequest) error
	RequestsByRequester(ctx context.Context, email string) ([]model.FoodRequest, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	PaymentsByEmail(ctx context.Context, email string) ([]model.Payment, error)
}
