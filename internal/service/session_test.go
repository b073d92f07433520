package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/auth"
)

const testSecret = "test-secret-at-least-16-chars"

func newTestSessionService(t *testing.T, revocations auth.RevocationStore) (*SessionService, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return NewSessionService(tokens, revocations, discardLogger()), tokens
}

func TestSessionIssue(t *testing.T) {
	svc, tokens := newTestSessionService(t, nil)

	if _, _, err := svc.Issue("   "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("blank email: error = %v, want ErrValidation", err)
	}

	token, claims, err := svc.Issue(" a@b.com ")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("Email = %q, want trimmed", claims.Email)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Errorf("issued token does not validate: %v", err)
	}
}

func TestSessionIssueVerified(t *testing.T) {
	svc, _ := newTestSessionService(t, nil)

	if _, _, err := svc.IssueVerified(&auth.GitHubUser{Login: "octo"}); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("no email: error = %v, want ErrUnauthorized", err)
	}
	_, claims, err := svc.IssueVerified(&auth.GitHubUser{Login: "octo", Email: "octo@example.com"})
	if err != nil {
		t.Fatalf("IssueVerified() error = %v", err)
	}
	if claims.Email != "octo@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestSessionLogout_StatelessKeepsTokenValid(t *testing.T) {
	svc, tokens := newTestSessionService(t, nil)
	token, _, _ := svc.Issue("a@b.com")

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Errorf("token captured before logout stopped validating: %v", err)
	}
}

func TestSessionLogout_RevokesWithStore(t *testing.T) {
	store := auth.NewMemoryRevocations()
	svc, _ := newTestSessionService(t, store)
	token, claims, _ := svc.Issue("a@b.com")

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	revoked, err := store.IsRevoked(context.Background(), claims.ID)
	if err != nil || !revoked {
		t.Errorf("IsRevoked() = %v, %v; want true", revoked, err)
	}
}

func TestSessionLogout_GarbageTokenIgnored(t *testing.T) {
	svc, _ := newTestSessionService(t, auth.NewMemoryRevocations())

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("empty token: error = %v", err)
	}
	if err := svc.Logout(context.Background(), "not-a-jwt"); err != nil {
		t.Errorf("garbage token: error = %v", err)
	}
}
