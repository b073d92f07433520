package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/payment"
	"github.com/sakif/sustaineats/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// In-memory stand-ins for the repositories and the gateway. Each can be told
// to fail with err to exercise the upstream-failure paths.

var errStoreDown = errors.New("database is locked")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFoodRepo struct {
	foods  map[string]model.FoodListing
	nextID int
	err    error
}

func newFakeFoodRepo(foods ...model.FoodListing) *fakeFoodRepo {
	r := &fakeFoodRepo{foods: make(map[string]model.FoodListing)}
	for _, f := range foods {
		r.foods[f.ID] = f
	}
	return r
}

func (r *fakeFoodRepo) CreateFood(_ context.Context, food *model.FoodListing) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	food.ID = fmt.Sprintf("food-%02d", r.nextID)
	r.foods[food.ID] = *food
	return nil
}

func (r *fakeFoodRepo) GetFood(_ context.Context, id string) (*model.FoodListing, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.foods[id]
	if !ok {
		return nil, apperror.NotFound("food", id)
	}
	return &f, nil
}

func (r *fakeFoodRepo) sorted(keep func(model.FoodListing) bool) []model.FoodListing {
	out := []model.FoodListing{}
	for _, f := range r.foods {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeFoodRepo) ListFoods(_ context.Context, q repository.FoodQuery) ([]model.FoodListing, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := r.sorted(func(f model.FoodListing) bool {
		return f.FoodStatus == q.Status &&
			strings.Contains(strings.ToLower(f.FoodName), strings.ToLower(q.Search))
	})
	switch q.Sort {
	case repository.SortAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiredDate < out[j].ExpiredDate })
	case repository.SortDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiredDate > out[j].ExpiredDate })
	}
	return out, nil
}

func (r *fakeFoodRepo) TopFoodsByQuantity(_ context.Context, status string, limit int) ([]model.FoodListing, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := r.sorted(func(f model.FoodListing) bool { return f.FoodStatus == status })
	sort.SliceStable(out, func(i, j int) bool { return out[i].FoodQuantity > out[j].FoodQuantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeFoodRepo) FoodsByDonor(_ context.Context, email string) ([]model.FoodListing, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(f model.FoodListing) bool { return f.DonatorEmail == email }), nil
}

func (r *fakeFoodRepo) UpsertFood(_ context.Context, id, owner string, patch model.FoodPatch) (*model.UpdateResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	res := &model.UpdateResult{Acknowledged: true}
	f, ok := r.foods[id]
	if ok {
		if owner != "" && f.DonatorEmail != owner {
			return nil, apperror.Forbidden("only the donor can update this listing")
		}
		res.MatchedCount, res.ModifiedCount = 1, 1
	} else {
		f = model.FoodListing{ID: id, DonatorEmail: owner, FoodStatus: model.StatusAvailable}
		upserted := id
		res.UpsertedID, res.UpsertedCount = &upserted, 1
	}
	patch.Apply(&f)
	r.foods[id] = f
	return res, nil
}

func (r *fakeFoodRepo) SetFoodStatus(_ context.Context, id, status string) (*model.UpdateResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.foods[id]
	if !ok {
		return &model.UpdateResult{Acknowledged: true}, nil
	}
	f.FoodStatus = status
	r.foods[id] = f
	return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *fakeFoodRepo) DeleteFood(_ context.Context, id, owner string) (*model.DeleteResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.foods[id]
	if !ok {
		return &model.DeleteResult{Acknowledged: true}, nil
	}
	if owner != "" && f.DonatorEmail != owner {
		return nil, apperror.Forbidden("only the donor can delete this listing")
	}
	delete(r.foods, id)
	return &model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type fakeRequestRepo struct {
	requests []model.FoodRequest
	err      error
}

func (r *fakeRequestRepo) CreateRequest(_ context.Context, req *model.FoodRequest) error {
	if r.err != nil {
		return r.err
	}
	req.ID = fmt.Sprintf("req-%02d", len(r.requests)+1)
	r.requests = append(r.requests, *req)
	return nil
}

func (r *fakeRequestRepo) RequestsByRequester(_ context.Context, email string) ([]model.FoodRequest, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []model.FoodRequest{}
	for _, req := range r.requests {
		if req.RequesterEmail == email {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments []model.Payment
	err      error
}

func (r *fakePaymentRepo) CreatePayment(_ context.Context, p *model.Payment) error {
	if r.err != nil {
		return r.err
	}
	p.ID = fmt.Sprintf("pay-%02d", len(r.payments)+1)
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakePaymentRepo) PaymentsByEmail(_ context.Context, email string) ([]model.Payment, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []model.Payment{}
	for _, p := range r.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeGateway records the amounts it was asked to charge.
type fakeGateway struct {
	amounts    []int64
	currencies []string
	err        error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payment.Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amounts = append(g.amounts, amount)
	g.currencies = append(g.currencies, currency)
	id := fmt.Sprintf("pi_%d", len(g.amounts))
	return &payment.Intent{ID: id, ClientSecret: id + "_secret", Amount: amount, Currency: currency}, nil
}
