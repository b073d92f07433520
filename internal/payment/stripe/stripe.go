// Package stripe implements payment.Gateway with Stripe PaymentIntents.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/sakif/sustaineats/internal/payment"
)

var _ payment.Gateway = (*Gateway)(nil)

// Config holds the Stripe settings.
type Config struct {
	// SecretKey is the account's secret API key (sk_live_... / sk_test_...).
	SecretKey string
	// BaseURL overrides the API host. Empty means api.stripe.com.
	BaseURL string
}

// Gateway talks to Stripe through its own API client rather than the
// package-level stripe.Key, so tests can point it at a fake server.
type Gateway struct {
	api    *client.API
	logger *slog.Logger
}

// New creates a Stripe gateway. It makes no network calls.
func New(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}

	var backends *stripe.Backends
	if cfg.BaseURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.BaseURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	return &Gateway{api: api, logger: logger}, nil
}

// CreateIntent stages a payment of amount minor units. Payment methods are
// left to the dashboard configuration (automatic payment methods).
func (g *Gateway) CreateIntent(ctx context.Context, amount int64, currency string) (*payment.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			g.logger.Warn("stripe rejected payment intent",
				slog.String("type", string(stripeErr.Type)),
				slog.String("code", string(stripeErr.Code)),
				slog.String("requestID", stripeErr.RequestID),
			)
		}
		return nil, fmt.Errorf("stripe: creating payment intent: %w", err)
	}

	g.logger.Info("payment intent created",
		slog.String("id", pi.ID),
		slog.Int64("amount", pi.Amount),
		slog.String("currency", string(pi.Currency)),
	)

	return &payment.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
