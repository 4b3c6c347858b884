package identity

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository with a mutex-guarded map for
// local development and tests.
type MemoryRepository struct {
	mu      sync.Mutex
	byKey   map[string]User
	keyByID map[string]string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byKey:   make(map[string]User),
		keyByID: make(map[string]string),
	}
}

// Upsert mirrors the Postgres semantics: an existing provider key keeps
// its id and created_at, only the profile snapshot moves.
func (r *MemoryRepository) Upsert(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byKey[user.ProviderKey]; ok {
		existing.Email = user.Email
		existing.DisplayName = user.DisplayName
		existing.AvatarURL = user.AvatarURL
		existing.UpdatedAt = user.UpdatedAt
		r.byKey[user.ProviderKey] = existing
		return existing, nil
	}

	r.byKey[user.ProviderKey] = user
	r.keyByID[user.ID.String()] = user.ProviderKey
	return user, nil
}

// FindByProviderKey looks up a user by provider key.
func (r *MemoryRepository) FindByProviderKey(_ context.Context, providerKey string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byKey[providerKey]; ok {
		copied := user
		return &copied, nil
	}
	return nil, nil
}

// FindByID looks up a user by internal id.
func (r *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keyByID[id]
	if !ok {
		return nil, nil
	}
	user := r.byKey[key]
	copied := user
	return &copied, nil
}
