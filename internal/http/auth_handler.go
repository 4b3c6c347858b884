package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"authgate/internal/identity"
	"authgate/internal/metrics"
	"authgate/internal/origin"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/internal/state"
)

const sessionCookieName = "app_session"

// Failure reasons carried into metrics and logs.
const (
	reasonBadOrigin          = "bad_origin"
	reasonInvalidState       = "invalid_state"
	reasonExchangeFailed     = "exchange_failed"
	reasonVerificationFailed = "verification_failed"
	reasonIdentityFailed     = "identity_failed"
	reasonSessionFailed      = "session_failed"
)

// AuthHandler drives the authorization-code flow: login start, provider
// callback, and the final redirect back to the front end.
type AuthHandler struct {
	providers    *provider.Registry
	states       state.Store
	allowlist    *origin.Allowlist
	identities   *identity.Service
	sessions     *session.Issuer
	collector    *metrics.Collector
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	providers *provider.Registry,
	states state.Store,
	allowlist *origin.Allowlist,
	identities *identity.Service,
	sessions *session.Issuer,
	collector *metrics.Collector,
	env string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		providers:    providers,
		states:       states,
		allowlist:    allowlist,
		identities:   identities,
		sessions:     sessions,
		collector:    collector,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

// LoginURL handles GET /auth/{provider}/login-url?origin=
// It returns the provider's hosted-login URL and the minted state so
// the front end can navigate there itself.
func (h *AuthHandler) LoginURL(w http.ResponseWriter, r *http.Request) {
	p, originURL, ok := h.beginLogin(w, r)
	if !ok {
		return
	}

	token, err := h.states.Create(r.Context(), originURL)
	if err != nil {
		h.logger.Error("failed to create login state", "provider", p.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.collector.RecordLoginStarted(p.Name())
	writeJSON(w, http.StatusOK, map[string]string{
		"url":   p.AuthURL(token),
		"state": token,
	})
}

// Login handles GET /auth/{provider}?origin=
// It redirects the browser straight to the provider's hosted login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p, originURL, ok := h.beginLogin(w, r)
	if !ok {
		return
	}

	token, err := h.states.Create(r.Context(), originURL)
	if err != nil {
		h.logger.Error("failed to create login state", "provider", p.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.collector.RecordLoginStarted(p.Name())
	http.Redirect(w, r, p.AuthURL(token), http.StatusTemporaryRedirect)
}

// beginLogin validates the provider route param and the origin query.
// Failures here happen before any state exists, so they surface as
// direct HTTP errors rather than redirects.
func (h *AuthHandler) beginLogin(w http.ResponseWriter, r *http.Request) (provider.Provider, string, bool) {
	name := chi.URLParam(r, "provider")
	p, ok := h.providers.Lookup(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return nil, "", false
	}

	originURL := origin.Normalize(r.URL.Query().Get("origin"))
	if !h.allowlist.IsTrusted(originURL) {
		h.logger.Warn("login rejected: origin not allowlisted", "provider", name, "origin", originURL)
		h.collector.RecordLoginFailed(name, reasonBadOrigin)
		writeError(w, http.StatusBadRequest, "bad origin")
		return nil, "", false
	}

	return p, originURL, true
}

// Callback handles GET /auth/{provider}/callback?code=&state=
// From here the user is mid-navigation through a third party, so every
// failure ends in a redirect with ok=0 rather than a raw error page.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	p, ok := h.providers.Lookup(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	stateToken := r.URL.Query().Get("state")
	if stateToken == "" {
		h.logger.Warn("callback missing state", "provider", name)
		h.redirectFailure(w, r, name, reasonInvalidState)
		return
	}

	originURL, err := h.states.Consume(r.Context(), stateToken)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			h.logger.Error("state consume failed", "provider", name, "error", err)
		} else {
			h.logger.Warn("callback with unknown or expired state", "provider", name)
		}
		h.redirectFailure(w, r, name, reasonInvalidState)
		return
	}

	// The provider reports user-denied consent and its own errors via
	// an error query param instead of a code.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("provider returned error", "provider", name, "error", errParam)
		h.redirectFailure(w, r, name, reasonExchangeFailed)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("callback missing code", "provider", name)
		h.redirectFailure(w, r, name, reasonExchangeFailed)
		return
	}

	exchangeStart := time.Now()
	ident, err := p.Exchange(r.Context(), code)
	h.collector.RecordExchangeLatency(time.Since(exchangeStart))
	if err != nil {
		reason := reasonExchangeFailed
		if errors.Is(err, provider.ErrTokenVerificationFailed) {
			reason = reasonVerificationFailed
		}
		h.logger.Error("provider exchange failed", "provider", name, "error", err)
		h.redirectFailure(w, r, name, reason)
		return
	}

	user, err := h.identities.Resolve(r.Context(), ident)
	if err != nil {
		h.logger.Error("identity resolution failed", "provider", name, "error", err)
		h.redirectFailure(w, r, name, reasonIdentityFailed)
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.Error("session issue failed", "provider", name, "error", err)
		h.redirectFailure(w, r, name, reasonSessionFailed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})

	h.collector.RecordLoginSucceeded(name)
	h.logger.Info("login successful", "provider", name, "user_id", user.ID)
	http.Redirect(w, r, originURL+"/auth/callback?ok=1", http.StatusTemporaryRedirect)
}

// redirectFailure sends the browser to the fallback origin with a
// failure flag and no cookie. Every callback failure lands there, even
// when the state already resolved the requesting origin.
func (h *AuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request, providerName, reason string) {
	h.collector.RecordLoginFailed(providerName, reason)
	http.Redirect(w, r, h.allowlist.Fallback()+"/auth/callback?ok=0", http.StatusTemporaryRedirect)
}
