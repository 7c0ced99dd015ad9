package repository

import (
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"
)

// UserRepository defines the interface for user record storage
type UserRepository interface {
	// Upsert stores the latest profile and provider tokens for
	// (email, provider). Inserts on first sight, overwrites afterwards.
	Upsert(email, provider, name, avatarURL, accessToken, refreshToken string, expiresIn time.Duration) (*authdomain.User, error)

	// FindByID finds a user record by its ID
	FindByID(id string) (*authdomain.User, error)

	// FindByEmailAndProvider finds the record for one identity
	FindByEmailAndProvider(email, provider string) (*authdomain.User, error)

	// UpdateTokens replaces the stored provider tokens for a record
	UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error
}

// LoginStateRepository defines the interface for the anti-forgery token stash
type LoginStateRepository interface {
	// Save stashes a new login state
	Save(state *authdomain.LoginState) error

	// Consume atomically looks up and deletes a stashed state.
	// Returns (nil, nil) when the state was never stashed or already used.
	Consume(state string) (*authdomain.LoginState, error)

	// PurgeExpired removes states whose expiry has passed
	PurgeExpired(now time.Time) (int64, error)
}
