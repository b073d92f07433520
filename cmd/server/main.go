// Command server runs the sustainEats API.
//
// main only reads configuration, builds the logger and the payment gateway,
// and hands them to internal/server. Everything else lives in internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/sustaineats/internal/config"
	"github.com/sakif/sustaineats/internal/payment"
	"github.com/sakif/sustaineats/internal/payment/stripe"
	"github.com/sakif/sustaineats/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Text for people in development, JSON for log collectors in production.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logger *slog.Logger
	if cfg.Production() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. PAYMENT GATEWAY ===
	// Optional: without a key the API runs and only payment intents fail.
	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gw, err := stripe.New(stripe.Config{SecretKey: cfg.StripeSecretKey}, logger)
		if err != nil {
			logger.Error("failed to create Stripe gateway", slog.String("error", err.Error()))
			os.Exit(1)
		}
		gateway = gw
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, /create-payment-intent will fail")
	}

	if !cfg.GitHubEnabled() {
		logger.Info("GitHub login disabled (GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set)")
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger, gateway)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
