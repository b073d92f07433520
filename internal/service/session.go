package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/auth"
)

// SessionService issues and ends sessions.
//
//	SessionHandler (HTTP) → SessionService → TokenService (JWT)
//	                                       ↘ RevocationStore (none | memory | redis)
type SessionService struct {
	tokens      *auth.TokenService
	revocations auth.RevocationStore
	logger      *slog.Logger
}

func NewSessionService(tokens *auth.TokenService, revocations auth.RevocationStore, logger *slog.Logger) *SessionService {
	if revocations == nil {
		revocations = auth.NoRevocation{}
	}
	return &SessionService{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Issue signs a session for whatever email the caller names. No account is
// looked up; IssueVerified is the path that proves the email first.
func (s *SessionService) Issue(email string) (string, *auth.Claims, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, apperror.Required("email")
	}
	token, claims, err := s.tokens.Issue(email)
	if err != nil {
		return "", nil, fmt.Errorf("service/session: issuing token: %w", err)
	}
	s.logger.Info("session issued", slog.String("email", email), slog.String("tokenID", claims.ID))
	return token, claims, nil
}

// IssueVerified signs a session for a GitHub-verified user.
func (s *SessionService) IssueVerified(user *auth.GitHubUser) (string, *auth.Claims, error) {
	if user == nil || user.Email == "" {
		return "", nil, apperror.Unauthorized("GitHub account has no verified email")
	}
	s.logger.Info("GitHub identity verified", slog.String("login", user.Login))
	return s.Issue(user.Email)
}

// Logout revokes token until its natural expiry. Without a revocation store
// this is a no-op and the token stays usable; the handler still clears the
// cookie. Invalid or absent tokens have nothing to revoke.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("revoking session", slog.String("tokenID", claims.ID), slog.String("error", err.Error()))
		return apperror.Upstream("An internal error occurred", err)
	}
	s.logger.Info("session ended", slog.String("email", claims.Email), slog.String("tokenID", claims.ID))
	return nil
}
