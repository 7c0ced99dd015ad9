package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	authdomain "mailbridge-backend/internal/auth/domain"
	"mailbridge-backend/internal/auth/repository"
	emaildto "mailbridge-backend/internal/email/dto"
	gmailpkg "mailbridge-backend/pkg/gmail"
	"mailbridge-backend/pkg/graph"

	"golang.org/x/oauth2"
)

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	userRepo     repository.UserRepository
	gmailService *gmailpkg.Service
	graphClient  *graph.Client
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(userRepo repository.UserRepository, gmailService *gmailpkg.Service, graphClient *graph.Client) EmailUsecase {
	return &emailUsecase{
		userRepo:     userRepo,
		gmailService: gmailService,
		graphClient:  graphClient,
	}
}

func (u *emailUsecase) SendEmail(ctx context.Context, identity string, req *emaildto.SendEmailRequest) (*emaildto.SendEmailResponse, error) {
	user, err := u.lookup(identity, req.Provider)
	if err != nil {
		return nil, err
	}

	switch user.Provider {
	case authdomain.ProviderGoogle:
		messageID, err := u.gmailService.SendEmail(ctx, user.AccessToken, user.RefreshToken, u.tokenUpdater(user), req.Recipient, req.Subject, req.Body)
		if err != nil {
			return nil, err
		}
		return &emaildto.SendEmailResponse{Provider: user.Provider, MessageID: messageID}, nil
	case authdomain.ProviderMicrosoft:
		if err := u.graphClient.SendMail(ctx, user.AccessToken, req.Recipient, req.Subject, req.Body); err != nil {
			return nil, err
		}
		return &emaildto.SendEmailResponse{Provider: user.Provider}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", user.Provider)
	}
}

func (u *emailUsecase) CreateEvent(ctx context.Context, identity string, req *emaildto.CreateEventRequest) (*emaildto.CreateEventResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventTime, err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventTime, err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end is not after start", ErrInvalidEventTime)
	}

	user, err := u.lookup(identity, req.Provider)
	if err != nil {
		return nil, err
	}

	switch user.Provider {
	case authdomain.ProviderGoogle:
		event, err := u.gmailService.CreateEvent(ctx, user.AccessToken, user.RefreshToken, u.tokenUpdater(user), req.Title, start, end)
		if err != nil {
			return nil, err
		}
		return &emaildto.CreateEventResponse{Provider: user.Provider, EventID: event.Id, Link: event.HtmlLink}, nil
	case authdomain.ProviderMicrosoft:
		event, err := u.graphClient.CreateEvent(ctx, user.AccessToken, req.Title, start, end)
		if err != nil {
			return nil, err
		}
		return &emaildto.CreateEventResponse{Provider: user.Provider, EventID: event.ID, Link: event.WebLink}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", user.Provider)
	}
}

func (u *emailUsecase) lookup(identity, providerName string) (*authdomain.User, error) {
	if !authdomain.ValidProvider(providerName) {
		return nil, fmt.Errorf("unsupported provider %q", providerName)
	}

	user, err := u.userRepo.FindByEmailAndProvider(identity, providerName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoLinkedAccount
	}
	return user, nil
}

// tokenUpdater persists provider tokens refreshed mid-call, so the next
// request starts from the newest credentials.
func (u *emailUsecase) tokenUpdater(user *authdomain.User) gmailpkg.TokenUpdateFunc {
	return func(t *oauth2.Token) error {
		log.Printf("[DEBUG] persisting refreshed provider token for %s (%s)", user.Email, user.Provider)
		return u.userRepo.UpdateTokens(user.ID, t.AccessToken, t.RefreshToken, t.Expiry)
	}
}
