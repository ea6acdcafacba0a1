package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/session"

	"golang.org/x/oauth2"
)

// Authenticator is the OIDC login flow used by the auth handlers.
type Authenticator interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.Claims, error)
}

var _ Authenticator = (*auth.Authenticator)(nil)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     Authenticator
	session  session.Manager
	enforcer middleware.Enforcer
}

// NewAuthHandler creates a new AuthHandler. A nil authenticator disables
// login.
func NewAuthHandler(a Authenticator, sm session.Manager, e middleware.Enforcer) *AuthHandler {
	return &AuthHandler{auth: a, session: sm, enforcer: e}
}

func (h *AuthHandler) loginDisabled() *middleware.AppError {
	return &middleware.AppError{Error: errors.New("oidc is not configured"), Message: "Login is not available", Code: http.StatusServiceUnavailable}
}

// handleLogin redirects the user to the OIDC provider to log in.
// A random state is kept in the session for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return h.loginDisabled()
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
	}
	h.session.Put(r.Context(), session.KeyState, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// handleCallback is the redirect URL for the OIDC provider.
// It handles the code exchange and token verification.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return h.loginDisabled()
	}
	state := h.session.PopString(r.Context(), session.KeyState)
	if state == "" || r.URL.Query().Get("state") != state {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "Invalid login state", Code: http.StatusBadRequest}
	}

	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to exchange token", Code: http.StatusUnauthorized}
	}
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return &middleware.AppError{Error: errors.New("no id_token in token response"), Message: "Login failed", Code: http.StatusUnauthorized}
	}
	claims, err := h.auth.VerifyIDToken(r.Context(), rawIDToken)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to verify ID token", Code: http.StatusUnauthorized}
	}

	// A fresh token on privilege change prevents session fixation.
	if err := h.session.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
	}
	h.session.Put(r.Context(), session.KeySubject, claims.Email)
	h.session.Put(r.Context(), session.KeyName, claims.Name)

	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// handleLogout destroys the session and returns to the homepage.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// handleMe reports who is logged in and whether they may use the admin API.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	if user.IsAnonymous() {
		return writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
	}
	admin := false
	if h.enforcer != nil {
		ok, err := h.enforcer.Enforce(user.Subject, "/api/admin/projects", http.MethodGet)
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Authorization error", Code: http.StatusInternalServerError}
		}
		admin = ok
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"email":         user.Subject,
		"name":          user.Name,
		"admin":         admin,
	})
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
