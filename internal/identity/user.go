package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal account a federated login resolves to. Profile
// fields hold only the latest snapshot from the provider; they are
// overwritten on every login.
type User struct {
	ID          uuid.UUID
	ProviderKey string
	Provider    string
	Email       string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
