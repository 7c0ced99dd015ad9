package repository

import (
	"errors"
	"log"
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// Upsert runs the read-modify-write inside one transaction so concurrent
// callbacks for the same identity cannot interleave into a corrupted row.
// The transaction covers only this store operation, never network calls.
func (r *userRepository) Upsert(email, provider, name, avatarURL, accessToken, refreshToken string, expiresIn time.Duration) (*authdomain.User, error) {
	expiry := time.Now().Add(expiresIn)

	var user authdomain.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ? AND provider = ?", email, provider).First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user = authdomain.User{
				ID:           uuid.New().String(),
				Email:        email,
				Provider:     provider,
				Name:         name,
				AvatarURL:    avatarURL,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				TokenExpiry:  expiry,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			log.Printf("[DEBUG] creating user record for %s (%s)", email, provider)
			return tx.Create(&user).Error
		}

		// Existing identity: overwrite profile and tokens, keep CreatedAt
		user.Name = name
		user.AvatarURL = avatarURL
		user.AccessToken = accessToken
		user.RefreshToken = refreshToken
		user.TokenExpiry = expiry
		user.UpdatedAt = time.Now()
		log.Printf("[DEBUG] updating tokens for user record %s (%s)", email, provider)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailAndProvider(email, provider string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ? AND provider = ?", email, provider).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"token_expiry": expiry,
		"updated_at":   time.Now(),
	}
	// Providers omit the refresh token when the old one is still valid
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.Model(&authdomain.User{}).Where("id = ?", id).Updates(updates).Error
}
