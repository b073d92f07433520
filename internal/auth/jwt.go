// Package auth issues and checks session tokens.
//
// A session is an HS256 JWT carrying the caller's email, valid for seven
// days and delivered in an HttpOnly cookie. Nothing about the session is
// stored server-side unless a revocation store is configured, so a token
// stays valid until it expires even after the cookie is cleared.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"email":"a@b.com","sub":"a@b.com","jti":"...","iat":...,"exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is the fixed lifetime of every issued session.
const SessionTTL = 7 * 24 * time.Hour

const issuer = "sustaineats"

// TokenService handles JWT creation and validation.
// The same secret signs and verifies; rotating it logs everybody out.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Example: JWT_API_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the session payload. Subject repeats the email so standard JWT
// tooling shows who the token belongs to; ID (jti) is what revocation keys on.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a session for email with the standard seven-day lifetime.
//
// The email is not checked against anything: whoever calls the issuing
// endpoint chooses the identity. The GitHub login flow is the verified path.
func (s *TokenService) Issue(email string) (string, *Claims, error) {
	return s.IssueWithDuration(email, SessionTTL)
}

// IssueWithDuration signs a session with a custom lifetime.
// Used in tests to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(email string, d time.Duration) (string, *Claims, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, errors.New("auth: email is required")
	}

	now := time.Now()
	c := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, c, nil
}

// Validate parses and verifies a session token and returns its claims.
//
// Rejected: bad signature, any algorithm other than HS256 (blocks the "none"
// algorithm trick), another issuer, a missing or past expiry, no email.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Email == "" {
		return nil, fmt.Errorf("auth: token has no email")
	}

	return c, nil
}
