package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"authgate/internal/config"
)

const googleIssuer = "https://accounts.google.com"

// idTokenVerifier is satisfied by *oidc.IDTokenVerifier.
type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// GoogleProvider handles Google OAuth 2.0 / OIDC login.
type GoogleProvider struct {
	config     *oauth2.Config
	verifier   idTokenVerifier
	httpClient *http.Client
}

// googleClaims are the ID token claims the gateway cares about.
type googleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NewGoogleProvider performs OIDC discovery against Google and builds a
// provider whose Exchange verifies ID tokens against Google's JWKS.
func NewGoogleProvider(ctx context.Context, cfg config.ProviderConfig) (*GoogleProvider, error) {
	oidcProvider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier:   oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name implements Provider.
func (g *GoogleProvider) Name() string { return NameGoogle }

// AuthURL generates the Google consent URL with the given state.
func (g *GoogleProvider) AuthURL(state string) string {
	return g.config.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades the authorization code for tokens and verifies the
// returned ID token's signature, issuer, and audience.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: google token exchange: %v", ErrExchangeFailed, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return Identity{}, fmt.Errorf("%w: no id_token in google response", ErrTokenVerificationFailed)
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenVerificationFailed, err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("%w: parse claims: %v", ErrTokenVerificationFailed, err)
	}
	if claims.Sub == "" {
		return Identity{}, fmt.Errorf("%w: id_token has no subject", ErrTokenVerificationFailed)
	}

	return Identity{
		Provider:    NameGoogle,
		Subject:     claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
	}, nil
}
