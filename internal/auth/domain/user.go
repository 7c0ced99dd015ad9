package domain

import "time"

// Provider identifies which identity provider authenticated a user.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// ValidProvider reports whether name is a supported identity provider.
func ValidProvider(name string) bool {
	return name == ProviderGoogle || name == ProviderMicrosoft
}

// User holds the latest provider tokens for one (email, provider) identity.
// A user signed in with both Google and Microsoft has two independent rows;
// identities are never merged across providers.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_email_provider;not null"`
	Provider     string    `json:"provider" gorm:"uniqueIndex:idx_email_provider;not null"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AccessToken  string    `json:"-"` // Provider secrets never leave the server
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
