// Package auth provides credential hashing and session identity for the
// Commentator app.
//
// SESSION MODEL:
// A session is a single optional value: the username of the currently
// authenticated account, or absent (anonymous). We carry it in a signed JWT
// stored in an HttpOnly cookie:
//
//  1. Register/login succeeds → server issues a JWT with the username in the
//     "sub" claim and sets it as the "session" cookie
//  2. The browser sends the cookie on every request
//  3. Middleware validates the signature and puts the username into the
//     request context
//  4. Logout (and failed login) clear the cookie
//
// WHY JWT?
// The token is stateless — nothing is persisted server-side, which matches
// the session's lifecycle: it exists only between login and logout. The
// HMAC signature ensures a client cannot forge or edit the username inside.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer identifies tokens minted by this application. Validation rejects
// tokens from any other issuer, so a JWT signed for some other app with the
// same secret (key reuse accidents happen) is still refused.
const issuer = "commentator"

// sessionDuration is how long a login lasts before the user must
// authenticate again.
const sessionDuration = 24 * time.Hour

// TokenService issues and validates session tokens.
//
// It holds the HMAC secret used to sign and verify. The same secret must be
// used for both operations — keep it out of source control and rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. We only need the registered claims: the
// username travels in "sub" (Subject), the standard claim for identifying
// who a token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given username.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and sufficient
// for a single-server deployment where the same process signs and verifies.
func (s *TokenService) Issue(username string) (string, error) {
	return s.IssueWithDuration(username, sessionDuration)
}

// IssueWithDuration creates a token with a custom expiry. Used by tests to
// mint already-expired tokens.
func (s *TokenService) IssueWithDuration(username string, d time.Duration) (string, error) {
	if username == "" {
		return "", errors.New("auth: username must not be empty")
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the username it
// encodes.
//
// The jwt library checks: signature integrity, expiry, issuer, and that the
// algorithm really is HS256. The WithValidMethods restriction prevents
// algorithm-confusion attacks ("alg":"none" tokens and friends).
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
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
			return "", fmt.Errorf("auth: session expired")
		}
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
