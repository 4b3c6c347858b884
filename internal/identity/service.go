package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"authgate/internal/provider"
)

// Service federates external identities into internal user records.
type Service struct {
	repo Repository
}

// NewService creates an identity Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve creates or updates the user for the given external identity.
// Repeating the call with an unchanged identity changes nothing but
// updated_at.
func (s *Service) Resolve(ctx context.Context, identity provider.Identity) (User, error) {
	now := time.Now()
	user := User{
		ID:          uuid.New(),
		ProviderKey: identity.Key(),
		Provider:    identity.Provider,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resolved, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("resolve identity %s: %w", identity.Key(), err)
	}
	return resolved, nil
}

// Lookup returns the user for an internal id, or nil if unknown.
func (s *Service) Lookup(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}
