package repository

import (
	"errors"
	"log"
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// loginStateRepository implements LoginStateRepository interface
type loginStateRepository struct {
	db *gorm.DB
}

// NewLoginStateRepository creates a new instance of loginStateRepository
func NewLoginStateRepository(db *gorm.DB) LoginStateRepository {
	return &loginStateRepository{
		db: db,
	}
}

func (r *loginStateRepository) Save(state *authdomain.LoginState) error {
	state.CreatedAt = time.Now()
	return r.db.Create(state).Error
}

// Consume finds and deletes in one transaction so a state value can only
// ever be redeemed once, even under racing callbacks.
func (r *loginStateRepository) Consume(state string) (*authdomain.LoginState, error) {
	var stashed authdomain.LoginState
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("state = ?", state).First(&stashed).Error; err != nil {
			return err
		}
		res := tx.Where("state = ?", state).Delete(&authdomain.LoginState{})
		if res.Error != nil {
			return res.Error
		}
		// A concurrent callback may have won the delete between our read
		// and this statement. Zero rows means the state was already used.
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stashed, nil
}

func (r *loginStateRepository) PurgeExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&authdomain.LoginState{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("[DEBUG] purged %d expired login states", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
