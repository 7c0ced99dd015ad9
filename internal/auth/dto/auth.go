package dto

// BeginLoginResponse carries the provider consent URL back to the browser.
type BeginLoginResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// UserInfo is the profile subset relayed to the opener window.
type UserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// LoginResult is the outcome of a completed OAuth callback.
type LoginResult struct {
	Provider     string   `json:"provider"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	UserInfo     UserInfo `json:"user_info"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}
