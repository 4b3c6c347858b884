package identity

import "context"

// Repository persists users keyed by their provider key.
type Repository interface {
	// Upsert inserts the user or, when the provider key already exists,
	// refreshes email, display name, avatar, and updated_at. The
	// uniqueness of the provider key must be enforced by the storage
	// layer so concurrent first logins cannot create duplicate users.
	Upsert(ctx context.Context, user User) (User, error)

	// FindByProviderKey looks up a user by provider key. Returns nil
	// when no user exists.
	FindByProviderKey(ctx context.Context, providerKey string) (*User, error)

	// FindByID looks up a user by internal id. Returns nil when no user
	// exists.
	FindByID(ctx context.Context, id string) (*User, error)
}
