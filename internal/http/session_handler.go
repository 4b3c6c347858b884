package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"authgate/internal/identity"
)

// SessionHandler serves the endpoints the rest of the application uses
// to consume the session the gateway issued.
type SessionHandler struct {
	identities   *identity.Service
	logger       *slog.Logger
	secureCookie bool
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(identities *identity.Service, env string, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		identities:   identities,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

// Me handles GET /api/me. The session middleware has already verified
// the token; this resolves the subject to the stored profile.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := SessionFromContext(r.Context())
	if claims == nil {
		unauthorized(w)
		return
	}

	user, err := h.identities.Lookup(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("user lookup failed", "user_id", claims.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.DisplayName,
			"picture":     user.AvatarURL,
			"provider":    user.Provider,
			"providerKey": user.ProviderKey,
		},
		"expiresAt": claims.ExpiresAt,
	})
}

// Logout handles POST /api/logout by clearing the session cookie. The
// token itself stays valid until expiry; the gateway keeps no
// server-side session state to revoke.
func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	w.WriteHeader(http.StatusNoContent)
}
