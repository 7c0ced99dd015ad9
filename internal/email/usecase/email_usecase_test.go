package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"
	"mailbridge-backend/internal/auth/repository"
	emaildto "mailbridge-backend/internal/email/dto"
	"mailbridge-backend/internal/email/usecase"
	gmailpkg "mailbridge-backend/pkg/gmail"
	"mailbridge-backend/pkg/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(email, provider, name, avatarURL, accessToken, refreshToken string, expiresIn time.Duration) (*authdomain.User, error) {
	args := m.Called(email, provider, name, avatarURL, accessToken, refreshToken, expiresIn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*authdomain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailAndProvider(email, provider string) (*authdomain.User, error) {
	args := m.Called(email, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error {
	args := m.Called(id, accessToken, refreshToken, expiry)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func microsoftUser() *authdomain.User {
	return &authdomain.User{
		ID:          "u1",
		Email:       "a@x.com",
		Provider:    authdomain.ProviderMicrosoft,
		AccessToken: "ms-at",
		TokenExpiry: time.Now().Add(time.Hour),
	}
}

func newUsecaseWithGraph(userRepo repository.UserRepository, graphURL string) usecase.EmailUsecase {
	graphClient := graph.NewClient(5 * time.Second)
	graphClient.BaseURL = graphURL
	return usecase.NewEmailUsecase(userRepo, gmailpkg.NewService("id", "secret"), graphClient)
}

func TestSendEmailViaMicrosoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/sendMail", r.URL.Path)
		assert.Equal(t, "Bearer ms-at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmailAndProvider", "a@x.com", authdomain.ProviderMicrosoft).Return(microsoftUser(), nil)

	uc := newUsecaseWithGraph(userRepo, srv.URL)

	resp, err := uc.SendEmail(context.Background(), "a@x.com", &emaildto.SendEmailRequest{
		Provider:  authdomain.ProviderMicrosoft,
		Recipient: "b@y.com",
		Subject:   "Hello",
		Body:      "body",
	})
	require.NoError(t, err)
	assert.Equal(t, authdomain.ProviderMicrosoft, resp.Provider)
}

func TestSendEmailNoLinkedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmailAndProvider", "a@x.com", authdomain.ProviderGoogle).Return(nil, nil)

	uc := newUsecaseWithGraph(userRepo, "http://unused")

	_, err := uc.SendEmail(context.Background(), "a@x.com", &emaildto.SendEmailRequest{
		Provider:  authdomain.ProviderGoogle,
		Recipient: "b@y.com",
		Subject:   "Hello",
		Body:      "body",
	})
	assert.ErrorIs(t, err, usecase.ErrNoLinkedAccount)
}

func TestSendEmailUnsupportedProvider(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newUsecaseWithGraph(userRepo, "http://unused")

	_, err := uc.SendEmail(context.Background(), "a@x.com", &emaildto.SendEmailRequest{
		Provider:  "yahoo",
		Recipient: "b@y.com",
		Subject:   "Hello",
		Body:      "body",
	})
	require.Error(t, err)
	userRepo.AssertNotCalled(t, "FindByEmailAndProvider", mock.Anything, mock.Anything)
}

func TestCreateEventViaMicrosoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/events", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "evt-1", "webLink": "https://outlook.example/evt-1"})
	}))
	defer srv.Close()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmailAndProvider", "a@x.com", authdomain.ProviderMicrosoft).Return(microsoftUser(), nil)

	uc := newUsecaseWithGraph(userRepo, srv.URL)

	resp, err := uc.CreateEvent(context.Background(), "a@x.com", &emaildto.CreateEventRequest{
		Provider:  authdomain.ProviderMicrosoft,
		Title:     "Standup",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-01T11:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", resp.EventID)
	assert.Equal(t, "https://outlook.example/evt-1", resp.Link)
}

func TestCreateEventRejectsBadTimes(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newUsecaseWithGraph(userRepo, "http://unused")

	_, err := uc.CreateEvent(context.Background(), "a@x.com", &emaildto.CreateEventRequest{
		Provider:  authdomain.ProviderMicrosoft,
		Title:     "Standup",
		StartTime: "tomorrow at ten",
		EndTime:   "2026-09-01T11:00:00Z",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidEventTime)

	_, err = uc.CreateEvent(context.Background(), "a@x.com", &emaildto.CreateEventRequest{
		Provider:  authdomain.ProviderMicrosoft,
		Title:     "Standup",
		StartTime: "2026-09-01T11:00:00Z",
		EndTime:   "2026-09-01T10:00:00Z",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidEventTime)

	userRepo.AssertNotCalled(t, "FindByEmailAndProvider", mock.Anything, mock.Anything)
}
