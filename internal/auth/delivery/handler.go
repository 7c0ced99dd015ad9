package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"

	authdto "mailbridge-backend/internal/auth/dto"
	"mailbridge-backend/internal/auth/usecase"
	"mailbridge-backend/internal/provider"
	"mailbridge-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh_token"

// relayPage posts the login outcome to the window that opened the popup,
// restricted to the configured frontend origin, then closes the popup.
var relayPage = template.Must(template.New("relay").Parse(`<!DOCTYPE html>
<html>
<body>
<script>
  window.opener.postMessage({{.Payload}}, {{.Origin}});
  window.close();
</script>
</body>
</html>`))

// AuthHandler serves the OAuth login flow and session endpoints
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	config      *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		config:      cfg,
	}
}

// Login returns the provider's authorization URL for the browser popup
func (h *AuthHandler) Login(c *gin.Context) {
	resp, err := h.authUsecase.BeginLogin(c.Param("provider"))
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownProvider) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
			return
		}
		log.Printf("[ERROR] begin login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback completes the OAuth flow and relays the outcome to the opener.
// Flow errors are reduced to a generic message; detail stays in the log.
func (h *AuthHandler) Callback(c *gin.Context) {
	providerName := c.Param("provider")
	code := c.Query("code")
	state := c.Query("state")

	// A hung provider call must not hold the request open indefinitely
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.ProviderTimeout)
	defer cancel()

	result, err := h.authUsecase.CompleteLogin(ctx, providerName, code, state)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownProvider):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		case errors.Is(err, usecase.ErrCsrfMismatch),
			errors.Is(err, provider.ErrTokenExchangeFailed),
			errors.Is(err, provider.ErrProfileIncomplete):
			log.Printf("[WARN] %s login failed: %v", providerName, err)
			h.relay(c, http.StatusBadRequest, gin.H{
				"status":   "error",
				"provider": providerName,
				"message":  "Authentication failed.",
			})
		default:
			log.Printf("[ERROR] %s callback failed: %v", providerName, err)
			h.relay(c, http.StatusInternalServerError, gin.H{
				"status":   "error",
				"provider": providerName,
				"message":  "Authentication failed.",
			})
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	h.relay(c, http.StatusOK, gin.H{
		"status":      "success",
		"provider":    result.Provider,
		"accessToken": result.AccessToken,
		"userInfo": gin.H{
			"email":   result.UserInfo.Email,
			"name":    result.UserInfo.Name,
			"picture": result.UserInfo.Picture,
		},
	})
}

// RefreshToken mints a new access credential from the refresh credential,
// taken from the HttpOnly cookie with a JSON body fallback.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		var req authdto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token required"})
			return
		}
		refreshToken = req.RefreshToken
	}

	accessToken, err := h.authUsecase.RefreshToken(refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, authdto.AccessTokenResponse{AccessToken: accessToken})
}

// Logout clears the refresh cookie. Issued credentials cannot be revoked
// server-side; the client is instructed to discard what it holds.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/auth", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully. Discard any held tokens.",
	})
}

// Me returns the authenticated identity
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"email": c.GetString("identity")},
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, refreshToken, int(h.config.JWTRefreshExpiry.Seconds()), "/api/auth", "", false, true)
}

func (h *AuthHandler) relay(c *gin.Context, status int, payload gin.H) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.String(http.StatusInternalServerError, "relay failed")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := relayPage.Execute(c.Writer, map[string]interface{}{
		"Payload": template.JS(body),
		"Origin":  h.config.FrontendOrigin,
	}); err != nil {
		log.Printf("[ERROR] relay page render failed: %v", err)
	}
}
