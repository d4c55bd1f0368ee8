package auth

import (
	"context"
	"net/http"
	"time"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session
// token. Exported so handlers can set and clear it.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// identity value in a context — no other package can collide with or shadow
// it, which is exactly the "no global session state" property we want: each
// request carries its own identity slot, created by the middleware below.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is middleware that enforces authentication on protected
// routes.
//
// It reads the session token from the cookie, validates it, and stores the
// username in the request context. If the token is missing or invalid it
// returns 401 Unauthorized and stops the chain — the handler never runs, so
// no mutation can happen on an anonymous request.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractIdentity(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"you must be logged in to do that"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but never
// blocks the request.
//
// Used on routes where anonymous users may read but logged-in users see
// more — e.g. viewing a feedback item shows everyone the content, and shows
// the owner an editable form.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, err := extractIdentity(r, tokens); err == nil && username != "" {
				ctx := context.WithValue(r.Context(), identityKey, username)
				r = r.WithContext(ctx)
			}
			// Always continue — no 401 even without a token.
			next.ServeHTTP(w, r)
		})
	}
}

// Identity retrieves the authenticated username from the request context.
//
// Returns ("", false) for an anonymous request. Services receive this value
// as an explicit parameter — identity is threaded through calls, never read
// from a process-wide global.
func Identity(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(identityKey).(string)
	return username, ok && username != ""
}

// SetSessionCookie stores a freshly issued session token on the response.
// HttpOnly keeps it out of reach of page JavaScript; SameSite=Lax keeps it
// off cross-site POSTs.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production (requires HTTPS)
	})
}

// ClearSessionCookie deletes the session cookie. Called on logout and on
// FAILED login: a failed attempt always clears any pre-existing identity,
// so a wrong password while logged in logs you out rather than silently
// keeping the old session alive.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// extractIdentity reads the session cookie and validates its token.
// Shared by RequireAuth and OptionalAuth.
func extractIdentity(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just an anonymous request
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
