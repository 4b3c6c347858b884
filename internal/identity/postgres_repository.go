package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the user or refreshes the profile snapshot when the
// provider key already exists. ON CONFLICT rides on the unique
// provider_key index, so concurrent first logins converge on one row.
func (r *PostgresRepository) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
		INSERT INTO users (id, provider_key, provider, email, display_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_key) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, provider_key, provider, email, display_name, avatar_url, created_at, updated_at
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query,
		user.ID,
		user.ProviderKey,
		user.Provider,
		user.Email,
		user.DisplayName,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return User{}, err
	}

	return *row.toUser(), nil
}

// FindByProviderKey looks up a user by provider key.
func (r *PostgresRepository) FindByProviderKey(ctx context.Context, providerKey string) (*User, error) {
	const query = `
		SELECT id, provider_key, provider, email, display_name, avatar_url, created_at, updated_at
		FROM users
		WHERE provider_key = $1
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, providerKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toUser(), nil
}

// FindByID looks up a user by internal id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	const query = `
		SELECT id, provider_key, provider, email, display_name, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, parsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toUser(), nil
}

// userRow is a database row representation of User.
type userRow struct {
	ID          uuid.UUID `db:"id"`
	ProviderKey string    `db:"provider_key"`
	Provider    string    `db:"provider"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	AvatarURL   string    `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:          r.ID,
		ProviderKey: r.ProviderKey,
		Provider:    r.Provider,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
