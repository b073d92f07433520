package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sustaineats/internal/auth"
	"github.com/sakif/sustaineats/internal/service"
)

// SessionHandler issues and clears the session cookie.
type SessionHandler struct {
	sessions *service.SessionService
	cookies  auth.CookiePolicy
	logger   *slog.Logger
}

func NewSessionHandler(sessions *service.SessionService, cookies auth.CookiePolicy, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies, logger: logger}
}

// HandleIssue signs a seven-day session for the posted email and sets it as
// an HttpOnly cookie.
//
// HTTP: POST /jwt  body {"email": "a@b.com", ...}
//
// Other body fields are accepted and ignored; only the email goes into the
// token.
func (h *SessionHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	token, claims, err := h.sessions.Issue(body.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.cookies.SessionCookie(token, claims.ExpiresAt.Time))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleLogout clears the cookie. With a revocation store configured the
// token is also revoked; otherwise a copy of it stays valid until expiry.
//
// HTTP: POST /logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(auth.CookieName); err == nil {
		token = c.Value
	}
	if err := h.sessions.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.cookies.ClearedCookie())
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleHealth is the liveness probe.
//
// HTTP: GET /
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("sustainEats is Running"))
}
