// Package handler contains the HTTP request handlers.
//
// Handlers are glue: parse the request, pull the identity out of the
// context, call a service, translate the result to JSON. All business rules
// (validation, ownership, uniqueness) live below, in the service layer and
// the authorization guard.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/commentator/internal/auth"
	"github.com/sakif/commentator/internal/model"
	"github.com/sakif/commentator/internal/service"
)

// AccountHandler manages registration, login/logout, and account pages.
type AccountHandler struct {
	accounts *service.AccountService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler with injected dependencies.
func NewAccountHandler(
	accounts *service.AccountService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// sessionResponse is returned by register and login: the account plus
// nothing else — the session itself travels in the HttpOnly cookie, not in
// the body.
type sessionResponse struct {
	Account *model.Account `json:"account"`
}

// HandleRegister creates an account and logs the new user in.
//
// HTTP: POST /api/register
// Body: {"username":..., "password":..., "email":..., "firstName":..., "lastName":...}
//
// On success the new username becomes the active session identity — the
// user is logged in immediately, like the original flow where registration
// redirects straight to the logged-in page.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.Issue(account.Username)
	if err != nil {
		h.logger.Error("register: token issue failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	auth.SetSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, sessionResponse{Account: account})
}

// HandleLogin authenticates a username/password pair.
//
// HTTP: POST /api/login
// Body: {"username":..., "password":...}
//
// A FAILED login clears any existing session cookie before responding: a
// wrong password while logged in logs you out, it never leaves a stale
// identity behind. The 401 body is identical for "no such user" and "wrong
// password".
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		auth.ClearSessionCookie(w)
		writeError(w, err)
		return
	}

	token, err := h.tokens.Issue(account.Username)
	if err != nil {
		h.logger.Error("login: token issue failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	auth.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, sessionResponse{Account: account})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/logout
//
// POST, not GET: logout changes state, and GET would be vulnerable to CSRF
// and browser prefetching. The token stays technically valid until expiry,
// but without the cookie the browser can't send it.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated account.
//
// HTTP: GET /api/me
// Auth: required
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.Identity(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but fail closed anyway.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	account, _, err := h.accounts.Get(r.Context(), identity, identity)
	if err != nil {
		h.logger.Error("HandleMe: lookup failed", slog.String("username", identity))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// accountDetailResponse bundles the account with its feedback for the
// profile page.
type accountDetailResponse struct {
	Account  *model.Account   `json:"account"`
	Feedback []model.Feedback `json:"feedback"`
}

// HandleGetAccount returns an account's detail view: profile + feedback.
//
// HTTP: GET /api/users/{username}
// Auth: required — any logged-in user may view any profile; anonymous
// visitors get 401 from the middleware (the API analogue of "redirect to
// login").
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())
	target := r.PathValue("username")

	account, feedback, err := h.accounts.Get(r.Context(), identity, target)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountDetailResponse{
		Account:  account,
		Feedback: feedback,
	})
}

// HandleDeleteAccount deletes an account and all of its feedback.
//
// HTTP: DELETE /api/users/{username}
// Auth: required; only the account's own identity passes the guard.
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.Identity(r.Context())
	target := r.PathValue("username")

	if err := h.accounts.Delete(r.Context(), identity, target); err != nil {
		writeError(w, err)
		return
	}

	// The deleted account's session is now meaningless — clear it.
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
