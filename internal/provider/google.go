package provider

import (
	"context"
	"fmt"
	"log"

	authdomain "mailbridge-backend/internal/auth/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// googleProvider implements Provider for Google OAuth
type googleProvider struct {
	config *oauth2.Config
}

// NewGoogle creates a Google identity provider adapter
func NewGoogle(clientID, clientSecret, redirectURI string, scopes []string) Provider {
	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() string {
	return authdomain.ProviderGoogle
}

func (p *googleProvider) BeginLogin() (string, string, error) {
	state, err := newState()
	if err != nil {
		return "", "", err
	}

	// offline access so Google issues a refresh token
	authURL := p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	return authURL, state, nil
}

func (p *googleProvider) CompleteLogin(ctx context.Context, code string) (*Tokens, *Profile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		log.Printf("[ERROR] google code exchange failed: %v", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}

	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create userinfo service: %v", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		log.Printf("[ERROR] google userinfo fetch failed: %v", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}

	if info.Email == "" {
		return nil, nil, ErrProfileIncomplete
	}

	tokens := &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok.Expiry),
	}
	profile := &Profile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	return tokens, profile, nil
}
