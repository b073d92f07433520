package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/sustaineats/internal/auth"
	"github.com/sakif/sustaineats/internal/service"
)

const stateCookieName = "oauth_state"

// AuthHandler runs the GitHub login flow, the verified alternative to
// POST /jwt: the session email is one GitHub has confirmed.
//
//   - HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//   - HandleGitHubCallback → check state, exchange the code, set the session cookie
type AuthHandler struct {
	github   *auth.GitHubProvider
	sessions *service.SessionService
	cookies  auth.CookiePolicy
	// redirectURL is where the browser lands after login, normally the SPA.
	redirectURL string
	logger      *slog.Logger
}

func NewAuthHandler(
	github *auth.GitHubProvider,
	sessions *service.SessionService,
	cookies auth.CookiePolicy,
	redirectURL string,
	logger *slog.Logger,
) *AuthHandler {
	if redirectURL == "" {
		redirectURL = "/"
	}
	return &AuthHandler{
		github:      github,
		sessions:    sessions,
		cookies:     cookies,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// CSRF PROTECTION VIA STATE:
// A random state is stored in a short-lived cookie and sent to GitHub. The
// callback only proceeds when GitHub hands the same value back. The state
// cookie is Lax (not the session's policy) because the callback arrives as
// a top-level navigation from github.com.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, h.stateCookie(state, 600)) // 10 minutes

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	// --- Step 1: Validate CSRF state ---
	saved, err := r.Cookie(stateCookieName)
	if err != nil || saved.Value == "" || r.URL.Query().Get("state") != saved.Value {
		h.logger.Warn("auth callback: state mismatch")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid OAuth state"})
		return
	}

	// Single use.
	http.SetCookie(w, h.stateCookie("", -1))

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, h.redirectURL+"?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "code is required"})
		return
	}

	// --- Step 2: Exchange code for a verified GitHub identity ---
	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "GitHub authentication failed"})
		return
	}

	// --- Step 3: Issue the session cookie ---
	token, claims, err := h.sessions.IssueVerified(ghUser)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, h.cookies.SessionCookie(token, claims.ExpiresAt.Time))

	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

// stateCookie builds the OAuth state cookie. Clearing it reuses the same
// attributes so browsers treat the removal as the same cookie.
func (h *AuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
