// Package admin exposes the console login endpoint. Authentication is a
// single shared password exchanged for a capability cookie; everything
// behind the console is gated on that cookie by middleware.AdminOnly.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/auth"
	"github.com/khoapp/storefront/pkg/handlers"
)

// AdminHandler holds the dependencies for admin-related handlers.
type AdminHandler struct {
	Password string
	Secret   string
	Logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(password, secret string, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{Password: password, Secret: secret, Logger: logger}
}

// Login verifies the console password and sets the capability cookie. The
// token is derived from the secret alone, so every login within a secret's
// lifetime yields the same token and logout is just dropping the cookie.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if !auth.VerifyPassword(req.Password, h.Password) {
		h.Logger.Warn("rejected admin login", slog.String("remote", r.RemoteAddr))
		handlers.WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token := auth.IssueToken(h.Secret)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	handlers.WriteJSON(w, http.StatusOK, api.LoginResponse{Success: true, Token: token})
}
