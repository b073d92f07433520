package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// contextKey is unexported so no other package can read or overwrite the
// identity stored under it.
type contextKey string

const identityKey contextKey = "identity"

// Identity is what an authorized request knows about its caller.
type Identity struct {
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

var (
	errNoSession = errors.New("auth: no session cookie")
	errRevoked   = errors.New("auth: token revoked")
)

// RequireAuth rejects the request with 401 unless the "token" cookie holds a
// valid, unrevoked session, and otherwise stores the caller's Identity in
// the request context.
//
// A failing revocation lookup is answered with 500: the guard cannot tell
// whether the session is still good.
func RequireAuth(tokens *TokenService, revocations RevocationStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authenticate(r, tokens, revocations)
			if err != nil {
				var lookupErr *revocationLookupError
				if errors.As(err, &lookupErr) {
					logger.Error("revocation lookup failed", slog.String("error", lookupErr.err.Error()))
					writeAuthError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
					return
				}
				logger.Debug("request rejected by auth guard",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized Access")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the caller bound by RequireAuth.
// ok is false on routes the guard does not protect.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Email != ""
}

// WithIdentity binds id to ctx the same way RequireAuth does.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

type revocationLookupError struct{ err error }

func (e *revocationLookupError) Error() string { return e.err.Error() }

func authenticate(r *http.Request, tokens *TokenService, revocations RevocationStore) (Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, errNoSession
	}

	claims, err := tokens.Validate(cookie.Value)
	if err != nil {
		return Identity{}, err
	}

	revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return Identity{}, &revocationLookupError{err: err}
	}
	if revoked {
		return Identity{}, errRevoked
	}

	id := Identity{Email: claims.Email, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func writeAuthError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + kind + `","message":"` + message + `"}` + "\n"))
}
