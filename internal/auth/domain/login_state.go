package domain

import "time"

// LoginAwaitingCallback is the only status a stashed state ever holds:
// rows are deleted at callback time, never marked with a terminal status.
const LoginAwaitingCallback = "awaiting_callback"

// LoginState is the server-side stash for an OAuth anti-forgery token.
// One row per login attempt; consumed (deleted) on the first callback
// carrying its state value, whatever the outcome.
type LoginState struct {
	State     string    `json:"state" gorm:"primaryKey"`
	Provider  string    `json:"provider" gorm:"not null"`
	Status    string    `json:"status" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the stashed state has aged out.
func (s *LoginState) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
