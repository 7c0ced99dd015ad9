package usecase

import (
	"context"
	"log"
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"
	authdto "mailbridge-backend/internal/auth/dto"
	"mailbridge-backend/internal/auth/repository"
	"mailbridge-backend/internal/auth/token"
	"mailbridge-backend/internal/provider"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo      repository.UserRepository
	stateRepo     repository.LoginStateRepository
	issuer        *token.Issuer
	providers     map[string]provider.Provider
	loginStateTTL time.Duration
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, stateRepo repository.LoginStateRepository, issuer *token.Issuer, providers []provider.Provider, loginStateTTL time.Duration) AuthUsecase {
	byName := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &authUsecase{
		userRepo:      userRepo,
		stateRepo:     stateRepo,
		issuer:        issuer,
		providers:     byName,
		loginStateTTL: loginStateTTL,
	}
}

func (u *authUsecase) BeginLogin(providerName string) (*authdto.BeginLoginResponse, error) {
	p, ok := u.providers[providerName]
	if !ok {
		return nil, ErrUnknownProvider
	}

	// Abandoned logins age out here rather than via a background job
	if _, err := u.stateRepo.PurgeExpired(time.Now()); err != nil {
		log.Printf("[WARN] login state purge failed: %v", err)
	}

	authURL, state, err := p.BeginLogin()
	if err != nil {
		return nil, err
	}

	if err := u.stateRepo.Save(&authdomain.LoginState{
		State:     state,
		Provider:  providerName,
		Status:    authdomain.LoginAwaitingCallback,
		ExpiresAt: time.Now().Add(u.loginStateTTL),
	}); err != nil {
		return nil, err
	}

	return &authdto.BeginLoginResponse{AuthorizationURL: authURL}, nil
}

func (u *authUsecase) CompleteLogin(ctx context.Context, providerName, code, state string) (*authdto.LoginResult, error) {
	p, ok := u.providers[providerName]
	if !ok {
		return nil, ErrUnknownProvider
	}

	// The state is consumed on the first attempt regardless of outcome,
	// so a replayed callback always fails the CSRF check.
	stashed, err := u.stateRepo.Consume(state)
	if err != nil {
		return nil, err
	}
	if stashed == nil || stashed.Provider != providerName || stashed.Expired(time.Now()) {
		log.Printf("[WARN] callback with unmatched state for provider %s", providerName)
		return nil, ErrCsrfMismatch
	}

	tokens, profile, err := p.CompleteLogin(ctx, code)
	if err != nil {
		return nil, err
	}

	// Store transaction starts only after the network calls are done
	user, err := u.userRepo.Upsert(profile.Email, providerName, profile.Name, profile.Picture, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
	if err != nil {
		return nil, err
	}

	accessToken, err := u.issuer.IssueAccess(user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.issuer.IssueRefresh(user.Email)
	if err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] login completed for %s via %s", user.Email, providerName)
	return &authdto.LoginResult{
		Provider:     providerName,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserInfo: authdto.UserInfo{
			Email:   profile.Email,
			Name:    profile.Name,
			Picture: profile.Picture,
		},
	}, nil
}

func (u *authUsecase) RefreshToken(refreshToken string) (string, error) {
	return u.issuer.Refresh(refreshToken)
}

func (u *authUsecase) ValidateToken(accessToken string) (string, error) {
	return u.issuer.Verify(accessToken, token.KindAccess)
}
