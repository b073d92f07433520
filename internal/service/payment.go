package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/payment"
	"github.com/sakif/sustaineats/internal/repository"
)

var errNoGateway = errors.New("no payment gateway configured")

// PaymentService stages payments with the gateway and records the payments
// clients report back.
type PaymentService struct {
	payments repository.PaymentRepository
	gateway  payment.Gateway // nil when no provider key is configured
	currency string
	logger   *slog.Logger
}

func NewPaymentService(payments repository.PaymentRepository, gateway payment.Gateway, currency string, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		currency: currency,
		logger:   logger,
	}
}

// ToMinorUnits converts a price in major units (dollars) to the integer
// minor units (cents) the gateway charges. Rounding absorbs float noise:
// 19.99*100 is 1998.9999999999998.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateIntent stages a payment for price and returns the intent whose
// client secret the browser completes the payment with.
func (s *PaymentService) CreateIntent(ctx context.Context, price *float64) (*payment.Intent, error) {
	if price == nil {
		return nil, apperror.Required("price")
	}
	if math.IsNaN(*price) || math.IsInf(*price, 0) || *price <= 0 {
		return nil, apperror.ValidationFailed("price", "price must be a positive number")
	}
	amount := ToMinorUnits(*price)
	if amount < 1 {
		return nil, apperror.ValidationFailed("price", "price is below the smallest chargeable amount")
	}

	if s.gateway == nil {
		s.logger.Error("payment intent requested without a gateway")
		return nil, apperror.Upstream("payments are not available", errNoGateway)
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Error("gateway failure",
			slog.Int64("amount", amount),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("An internal error occurred", err)
	}
	return intent, nil
}

// Record stores a payment the client reports as completed. Nothing ties it
// to an intent; the record is the client's word.
func (s *PaymentService) Record(ctx context.Context, actor string, p *model.Payment) (*model.InsertResult, error) {
	email, err := ownerEmail(actor, p.Email, "email")
	if err != nil {
		return nil, err
	}
	p.Email = email
	if p.Currency == "" {
		p.Currency = s.currency
	}

	if err := s.payments.CreatePayment(ctx, p); err != nil {
		s.logger.Error("store failure", slog.String("op", "creating payment"), slog.String("error", err.Error()))
		return nil, apperror.Upstream("An internal error occurred", fmt.Errorf("creating payment: %w", err))
	}

	s.logger.Info("payment recorded",
		slog.String("id", p.ID),
		slog.String("email", p.Email),
		slog.Float64("amount", p.Amount),
	)
	return &model.InsertResult{Acknowledged: true, InsertedID: p.ID}, nil
}

// ByEmail lists the caller's own payments.
func (s *PaymentService) ByEmail(ctx context.Context, actor, email string) ([]model.Payment, error) {
	if err := requireSelf(actor, email); err != nil {
		return nil, err
	}
	payments, err := s.payments.PaymentsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("store failure", slog.String("op", "listing payments"), slog.String("error", err.Error()))
		return nil, apperror.Upstream("An internal error occurred", fmt.Errorf("listing payments: %w", err))
	}
	return payments, nil
}
