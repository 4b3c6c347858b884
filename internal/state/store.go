// Package state manages the single-use CSRF tokens that bind a login
// attempt to the front-end origin that started it.
package state

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Consume when the token was never issued,
// has already been consumed, or has expired. Callers must treat all
// three identically: the callback is rejected.
var ErrNotFound = errors.New("state token not found")

// Store registers a state token per login attempt and guarantees it
// validates at most once.
type Store interface {
	// Create mints a random token bound to the originating front-end
	// URL and stores it with the configured TTL.
	Create(ctx context.Context, originURL string) (string, error)

	// Consume atomically looks up and deletes the token, returning the
	// origin it was bound to. Exactly one of two concurrent calls with
	// the same token succeeds; the other gets ErrNotFound.
	Consume(ctx context.Context, token string) (string, error)
}

// newToken returns a 256-bit random token in URL-safe base64.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
