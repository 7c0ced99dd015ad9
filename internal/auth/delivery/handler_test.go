package delivery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mailbridge-backend/internal/auth/delivery"
	authdto "mailbridge-backend/internal/auth/dto"
	"mailbridge-backend/internal/auth/usecase"
	"mailbridge-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthUsecase is a mock implementation of usecase.AuthUsecase
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) BeginLogin(provider string) (*authdto.BeginLoginResponse, error) {
	args := m.Called(provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdto.BeginLoginResponse), args.Error(1)
}

func (m *MockAuthUsecase) CompleteLogin(ctx context.Context, provider, code, state string) (*authdto.LoginResult, error) {
	args := m.Called(provider, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdto.LoginResult), args.Error(1)
}

func (m *MockAuthUsecase) RefreshToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) ValidateToken(accessToken string) (string, error) {
	args := m.Called(accessToken)
	return args.String(0), args.Error(1)
}

var _ usecase.AuthUsecase = (*MockAuthUsecase)(nil)

func testConfig() *config.Config {
	return &config.Config{
		FrontendOrigin:   "http://localhost:5173",
		JWTRefreshExpiry: 168 * time.Hour,
		ProviderTimeout:  5 * time.Second,
	}
}

func newTestRouter(uc usecase.AuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := delivery.NewAuthHandler(uc, testConfig())

	auth := r.Group("/api/auth")
	{
		auth.GET("/:provider/login", h.Login)
		auth.GET("/:provider/callback", h.Callback)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", delivery.AuthMiddleware(uc), h.Me)
	}
	return r
}

func TestLoginReturnsAuthorizationURL(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("BeginLogin", "google").Return(&authdto.BeginLoginResponse{
		AuthorizationURL: "https://accounts.google.com/o/oauth2/auth?state=xyz",
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil)
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authorization_url")
}

func TestLoginUnknownProvider(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("BeginLogin", "facebook").Return(nil, usecase.ErrUnknownProvider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/facebook/login", nil)
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallbackRelaysResultAndSetsCookie(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("CompleteLogin", "google", "validcode123", "xyz").Return(&authdto.LoginResult{
		Provider:     "google",
		AccessToken:  "app-access",
		RefreshToken: "app-refresh",
		UserInfo:     authdto.UserInfo{Email: "a@x.com", Name: "A"},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=validcode123&state=xyz", nil)
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "window.opener.postMessage")
	assert.Contains(t, body, "app-access")
	assert.Contains(t, body, "a@x.com")
	assert.Contains(t, body, "http://localhost:5173")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "app-refresh", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCallbackFailureIsGeneric(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("CompleteLogin", "google", "validcode123", "wrong").Return(nil, usecase.ErrCsrfMismatch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=validcode123&state=wrong", nil)
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Authentication failed.")
	// Internals never leak to the browser
	assert.NotContains(t, body, "state token mismatch")
	assert.Empty(t, w.Result().Cookies())
}

func TestRefreshFromCookie(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("RefreshToken", "app-refresh").Return("new-access", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "app-refresh"})
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}

func TestRefreshFromBody(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("RefreshToken", "app-refresh").Return("new-access", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refresh_token":"app-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}

func TestRefreshInvalidCredential(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("RefreshToken", "expired").Return("", assert.AnError)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "expired"})
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWithoutCredential(t *testing.T) {
	uc := new(MockAuthUsecase)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	uc.AssertNotCalled(t, "RefreshToken", mock.Anything)
}

func TestMe(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("ValidateToken", "app-access").Return("a@x.com", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer app-access")
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestMeRejectsBadToken(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("ValidateToken", "garbage").Return("", assert.AnError)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	newTestRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	newTestRouter(new(MockAuthUsecase)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	newTestRouter(new(MockAuthUsecase)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
