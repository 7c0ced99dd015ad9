package provider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Authentication-flow errors. Both are non-retryable: the user has to
// restart the login flow.
var (
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileIncomplete   = errors.New("profile has no email address")
)

// Tokens are the provider-issued credentials from a code exchange.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Profile is the minimal identity fetched after a successful exchange.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// Provider adapts one identity provider to the login flow. Adapters make
// network calls only; they never persist anything.
type Provider interface {
	// Name returns the provider identifier ("google", "microsoft")
	Name() string

	// BeginLogin builds the authorization URL and a fresh anti-forgery
	// state token. The caller is responsible for stashing the state.
	BeginLogin() (authURL, state string, err error)

	// CompleteLogin exchanges the authorization code for provider tokens
	// and fetches the profile. Fails with ErrTokenExchangeFailed or
	// ErrProfileIncomplete.
	CompleteLogin(ctx context.Context, code string) (*Tokens, *Profile, error)
}

// newState returns 32 random bytes, base64 raw-URL encoded.
func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// expiresIn converts an oauth2 absolute expiry into a duration, with a
// one hour fallback for providers that omit it.
func expiresIn(expiry time.Time) time.Duration {
	if expiry.IsZero() {
		return time.Hour
	}
	return time.Until(expiry)
}
