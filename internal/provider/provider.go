// Package provider adapts third-party OAuth2/OIDC login flows into a
// single normalized identity shape.
package provider

import (
	"context"
	"errors"
)

// Provider names as they appear in routes and provider keys.
const (
	NameGoogle = "google"
	NameKakao  = "kakao"
)

var (
	// ErrExchangeFailed covers network errors and non-2xx responses from
	// the provider's token or user-info endpoints. Authorization codes
	// are single-use at the provider, so this is never retried.
	ErrExchangeFailed = errors.New("provider exchange failed")

	// ErrTokenVerificationFailed covers signature, issuer, audience, and
	// claim failures on a returned identity token.
	ErrTokenVerificationFailed = errors.New("identity token verification failed")
)

// Identity is the normalized result of a provider exchange. It exists
// only for the duration of a single callback and is never persisted
// as-is.
type Identity struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Key returns the stable join key between this external account and the
// internal user record.
func (i Identity) Key() string {
	return i.Provider + ":" + i.Subject
}

// Provider encapsulates one third-party login integration.
type Provider interface {
	// Name returns the stable provider identifier used in routes,
	// storage, and logging.
	Name() string

	// AuthURL builds the provider's hosted-login URL embedding the CSRF
	// state token.
	AuthURL(state string) string

	// Exchange trades an authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (Identity, error)
}

// Registry holds the configured providers keyed by name, so adding a
// provider never touches the callback orchestration.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
