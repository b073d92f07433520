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

// RequestService handles food requests filed by recipients.
type RequestService struct {
	requests repository.RequestRepository
	foods    repository.FoodRepository
	// strict rejects requests whose foodId names no listing. Off by default:
	// requests are independent records and may outlive their listing.
	strict bool
	logger *slog.Logger
}

func NewRequestService(requests repository.RequestRepository, foods repository.FoodRepository, strict bool, logger *slog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		foods:    foods,
		strict:   strict,
		logger:   logger,
	}
}

// Create files a request on behalf of actor.
func (s *RequestService) Create(ctx context.Context, actor string, req *model.FoodRequest) (*model.InsertResult, error) {
	req.FoodID = strings.TrimSpace(req.FoodID)
	if req.FoodID == "" {
		return nil, apperror.Required("foodId")
	}
	email, err := ownerEmail(actor, req.RequesterEmail, "requesterEmail")
	if err != nil {
		return nil, err
	}
	req.RequesterEmail = email

	if s.strict {
		_, err := s.foods.GetFood(ctx, req.FoodID)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("foodId", fmt.Sprintf("food %s does not exist", req.FoodID))
		}
		if err != nil {
			return nil, s.upstream("checking requested food", err)
		}
	}

	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return nil, s.upstream("creating request", err)
	}

	s.logger.Info("food requested",
		slog.String("id", req.ID),
		slog.String("foodId", req.FoodID),
		slog.String("requester", req.RequesterEmail),
	)
	return &model.InsertResult{Acknowledged: true, InsertedID: req.ID}, nil
}

// ByRequester lists the caller's own requests.
func (s *RequestService) ByRequester(ctx context.Context, actor, email string) ([]model.FoodRequest, error) {
	if err := requireSelf(actor, email); err != nil {
		return nil, err
	}
	reqs, err := s.requests.RequestsByRequester(ctx, email)
	if err != nil {
		return nil, s.upstream("listing requests", err)
	}
	return reqs, nil
}

func (s *RequestService) upstream(op string, err error) error {
	s.logger.Error("store failure", slog.String("op", op), slog.String("error", err.Error()))
	return apperror.Upstream("An internal error occurred", fmt.Errorf("%s: %w", op, err))
}
