package usecase

import (
	"context"
	"errors"

	authdto "mailbridge-backend/internal/auth/dto"
)

var (
	// ErrCsrfMismatch means the callback state did not match any stashed
	// anti-forgery token (missing, already consumed, expired, or issued
	// for another provider).
	ErrCsrfMismatch = errors.New("state token mismatch")

	// ErrUnknownProvider means the request named a provider we do not support.
	ErrUnknownProvider = errors.New("unknown identity provider")
)

// AuthUsecase drives the OAuth login flow and the app-level session
// credential lifecycle.
type AuthUsecase interface {
	// BeginLogin builds the consent URL for provider and stashes the
	// anti-forgery state server-side.
	BeginLogin(provider string) (*authdto.BeginLoginResponse, error)

	// CompleteLogin handles the provider callback: consumes the state,
	// exchanges the code, fetches the profile, upserts the user record
	// and mints session credentials.
	CompleteLogin(ctx context.Context, providerName, code, state string) (*authdto.LoginResult, error)

	// RefreshToken mints a new access credential from a refresh credential
	RefreshToken(refreshToken string) (string, error)

	// ValidateToken verifies an access credential and returns the identity
	ValidateToken(accessToken string) (string, error)
}
