package auth

import (
	"net/http"
	"time"
)

// CookieName is the cookie the session token travels in.
const CookieName = "token"

// CookiePolicy decides the cookie attributes for the deployment.
//
// In production the SPA is served from another site, so the cookie must be
// SameSite=None, which browsers only accept together with Secure. Locally
// everything runs over plain HTTP on localhost, where Strict is enough.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

func CookiePolicyFor(production bool) CookiePolicy {
	if production {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookiePolicy{Secure: false, SameSite: http.SameSiteStrictMode}
}

// SessionCookie carries token until expires.
func (p CookiePolicy) SessionCookie(token string, expires time.Time) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

// ClearedCookie tells the browser to drop the session cookie at once
// (MaxAge -1 is sent as "Max-Age=0"). The attributes must match the ones the
// cookie was set with or some browsers keep the original.
func (p CookiePolicy) ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
