package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sustaineats/internal/auth"
	"github.com/sakif/sustaineats/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSessions(t *testing.T) (*service.SessionService, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("handler-test-secret-0123")
	require.NoError(t, err)
	return service.NewSessionService(tokens, nil, testLogger()), tokens
}

func TestSessionHandler_IssueProductionCookie(t *testing.T) {
	sessions, tokens := newTestSessions(t)
	h := NewSessionHandler(sessions, auth.CookiePolicyFor(true), testLogger())

	rr := httptest.NewRecorder()
	h.HandleIssue(rr, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@b.com"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)

	claims, err := tokens.Validate(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestSessionHandler_IssueWithoutEmail(t *testing.T) {
	sessions, _ := newTestSessions(t)
	h := NewSessionHandler(sessions, auth.CookiePolicyFor(false), testLogger())

	rr := httptest.NewRecorder()
	h.HandleIssue(rr, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"name":"x"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSessionHandler_LogoutWithoutCookie(t *testing.T) {
	sessions, _ := newTestSessions(t)
	h := NewSessionHandler(sessions, auth.CookiePolicyFor(false), testLogger())

	rr := httptest.NewRecorder()
	h.HandleLogout(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestHandleHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "sustainEats is Running", rr.Body.String())
}

func TestAuthHandler_LoginSetsState(t *testing.T) {
	sessions, _ := newTestSessions(t)
	github := auth.NewGitHubProvider("client-id", "secret", "http://localhost:3000/auth/github/callback")
	h := NewAuthHandler(github, sessions, auth.CookiePolicyFor(false), "http://localhost:5173", testLogger())

	rr := httptest.NewRecorder()
	h.HandleGitHubLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))

	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookieName, cookies[0].Name)

	loc, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
}

func TestAuthHandler_CallbackRejectsBadState(t *testing.T) {
	sessions, _ := newTestSessions(t)
	github := auth.NewGitHubProvider("client-id", "secret", "http://localhost:3000/auth/github/callback")
	h := NewAuthHandler(github, sessions, auth.CookiePolicyFor(false), "", testLogger())

	tests := []struct {
		name   string
		cookie string
		query  string
	}{
		{"no cookie", "", "?state=abc&code=x"},
		{"mismatch", "abc", "?state=other&code=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/github/callback"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: stateCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.HandleGitHubCallback(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			for _, c := range rr.Result().Cookies() {
				assert.NotEqual(t, auth.CookieName, c.Name, "no session on a failed callback")
			}
		})
	}
}

func TestAuthHandler_CallbackDenied(t *testing.T) {
	sessions, _ := newTestSessions(t)
	github := auth.NewGitHubProvider("client-id", "secret", "http://localhost:3000/auth/github/callback")
	h := NewAuthHandler(github, sessions, auth.CookiePolicyFor(true), "http://localhost:5173", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state=s1&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s1"})
	rr := httptest.NewRecorder()
	h.HandleGitHubCallback(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "http://localhost:5173?auth=denied", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cleared := cookies[0]
	assert.Equal(t, stateCookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.HttpOnly)
	assert.True(t, cleared.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cleared.SameSite)
}
