package provider

import (
	"context"
	"fmt"
	"log"

	authdomain "mailbridge-backend/internal/auth/domain"
	"mailbridge-backend/pkg/graph"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// microsoftProvider implements Provider for Microsoft (Azure AD) OAuth
type microsoftProvider struct {
	config *oauth2.Config
	graph  *graph.Client
}

// NewMicrosoft creates a Microsoft identity provider adapter
func NewMicrosoft(clientID, clientSecret, redirectURI string, scopes []string, tenant string, graphClient *graph.Client) Provider {
	return &microsoftProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		graph: graphClient,
	}
}

func (p *microsoftProvider) Name() string {
	return authdomain.ProviderMicrosoft
}

func (p *microsoftProvider) BeginLogin() (string, string, error) {
	state, err := newState()
	if err != nil {
		return "", "", err
	}
	// offline_access scope makes Azure AD return a refresh token
	return p.config.AuthCodeURL(state), state, nil
}

func (p *microsoftProvider) CompleteLogin(ctx context.Context, code string) (*Tokens, *Profile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		log.Printf("[ERROR] microsoft code exchange failed: %v", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}

	user, err := p.graph.Me(ctx, tok.AccessToken)
	if err != nil {
		log.Printf("[ERROR] graph profile fetch failed: %v", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrProfileIncomplete, err)
	}

	email := user.Email()
	if email == "" {
		return nil, nil, ErrProfileIncomplete
	}

	// Photo is best-effort; many accounts have none
	picture, err := p.graph.PhotoDataURL(ctx, tok.AccessToken)
	if err != nil {
		log.Printf("[WARN] graph photo fetch failed: %v", err)
		picture = ""
	}

	tokens := &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok.Expiry),
	}
	profile := &Profile{
		Email:   email,
		Name:    user.DisplayName,
		Picture: picture,
	}
	return tokens, profile, nil
}
