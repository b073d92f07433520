// Package server wires the application together: store, revocation store,
// services, handlers, middleware and routes. It is the composition root;
// nothing else constructs dependencies.
//
//	main.go → config.Load → server.New:
//	  sqlite.DB → FoodService / RequestService / PaymentService → handlers
//	  TokenService + RevocationStore → SessionService, RequireAuth
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/sakif/sustaineats/internal/auth"
	"github.com/sakif/sustaineats/internal/config"
	"github.com/sakif/sustaineats/internal/handler"
	"github.com/sakif/sustaineats/internal/middleware"
	"github.com/sakif/sustaineats/internal/payment"
	sqliteRepo "github.com/sakif/sustaineats/internal/repository/sqlite"
	"github.com/sakif/sustaineats/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database pool and, when configured, the Redis client.
// Both are closed when Start returns or Close is called.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	redis  *redis.Client // nil unless SESSION_REVOCATION=redis
}

// New builds the server. gateway may be nil, in which case the payment intent
// route answers 500 and everything else works.
func New(cfg config.Config, logger *slog.Logger, gateway payment.Gateway) (*Server, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	revocations, err := s.revocationStore()
	if err != nil {
		s.Close()
		return nil, err
	}

	if err := s.setupRoutes(revocations, gateway); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// revocationStore picks where logged-out token ids are kept. "none" keeps
// sessions fully stateless.
func (s *Server) revocationStore() (auth.RevocationStore, error) {
	switch s.config.SessionRevocation {
	case config.RevocationMemory:
		return auth.NewMemoryRevocations(), nil
	case config.RevocationRedis:
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.config.RedisAddr,
			Password: s.config.RedisPassword,
			DB:       s.config.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", s.config.RedisAddr, err)
		}
		return auth.NewRedisRevocations(s.redis), nil
	default:
		return auth.NoRevocation{}, nil
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                           liveness
//	POST   /jwt, /logout               session cookie
//	GET    /auth/github/login|callback verified login (when configured)
//	GET    /foods, /featured-foods, /food/{id}      public catalog
//	everything else                    behind RequireAuth
//
// MIDDLEWARE ORDER: RequestID → RealIP → Logger → Recoverer → CORS.
// The logger sits outside Recoverer so recovered panics are logged as 500s.
func (s *Server) setupRoutes(revocations auth.RevocationStore, gateway payment.Gateway) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return err
	}
	cookies := auth.CookiePolicyFor(s.config.Production())

	sessionService := service.NewSessionService(tokens, revocations, s.logger)
	foodService := service.NewFoodService(s.db, s.logger)
	requestService := service.NewRequestService(s.db, s.db, s.config.StrictReferences, s.logger)
	paymentService := service.NewPaymentService(s.db, gateway, s.config.PaymentCurrency, s.logger)

	sessionHandler := handler.NewSessionHandler(sessionService, cookies, s.logger)
	foodHandler := handler.NewFoodHandler(foodService, s.logger)
	requestHandler := handler.NewRequestHandler(requestService, s.logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, s.logger)

	// === Open routes ===
	s.router.Get("/", handler.HandleHealth)
	s.router.Post("/jwt", sessionHandler.HandleIssue)
	s.router.Post("/logout", sessionHandler.HandleLogout)

	s.router.Get("/foods", foodHandler.HandleList)
	s.router.Get("/featured-foods", foodHandler.HandleFeatured)
	s.router.Get("/food/{id}", foodHandler.HandleGet)

	if s.config.GitHubEnabled() {
		redirect := "/"
		if len(s.config.ClientOrigins) > 0 {
			redirect = s.config.ClientOrigins[0]
		}
		github := auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
		authHandler := handler.NewAuthHandler(github, sessionService, cookies, redirect, s.logger)
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	// === Session-gated routes ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, revocations, s.logger))

		r.Get("/foods/{email}", foodHandler.HandleByDonor)
		r.Post("/foods", foodHandler.HandleCreate)
		r.Put("/food/{id}", foodHandler.HandleUpsert)
		r.Patch("/food/{id}", foodHandler.HandleSetStatus)
		r.Delete("/food/{id}", foodHandler.HandleDelete)

		r.Get("/requested-foods/{email}", requestHandler.HandleByRequester)
		r.Post("/request-food", requestHandler.HandleCreate)

		r.Get("/payments/{email}", paymentHandler.HandleByEmail)
		r.Post("/create-payment-intent", paymentHandler.HandleCreateIntent)
		r.Post("/payments", paymentHandler.HandleRecord)
	})

	return nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database and Redis connections.
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("sustainEats is running",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.Environment),
			slog.String("database", s.config.DBPath),
			slog.String("revocation", s.config.SessionRevocation),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
