package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/emersion/go-message/mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is called when the underlying token source silently
// refreshes the provider access token, so the new token can be persisted.
type TokenUpdateFunc func(*oauth2.Token) error

// Service calls the Gmail and Google Calendar APIs with a user's stored
// provider tokens.
type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[WARN] failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// userToken rebuilds an oauth2.Token from the stored credentials.
func userToken(accessToken, refreshToken string) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token. A token without an
	// expiry is never refreshed, and the stored access token may already
	// be stale.
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	return token
}

// client builds an oauth2-backed HTTP client around the user's tokens,
// wrapped to report silent token refreshes back through onTokenRefresh.
func (s *Service) client(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) option.ClientOption {
	token := userToken(accessToken, refreshToken)

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	return option.WithHTTPClient(oauth2.NewClient(ctx, wrappedSource))
}

// SendEmail sends a plain-text email through the Gmail API and returns
// the Gmail message ID.
func (s *Service) SendEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc, recipient, subject, body string) (string, error) {
	srv, err := gmail.NewService(ctx, s.client(ctx, accessToken, refreshToken, onTokenRefresh))
	if err != nil {
		return "", fmt.Errorf("unable to create Gmail service: %v", err)
	}

	raw, err := composeMessage(recipient, subject, body)
	if err != nil {
		return "", fmt.Errorf("unable to compose message: %v", err)
	}

	sent, err := srv.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %v", err)
	}

	log.Printf("[DEBUG] gmail message %s sent to %s", sent.Id, recipient)
	return sent.Id, nil
}

// CreateEvent inserts an event on the user's primary calendar.
func (s *Service) CreateEvent(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc, title string, start, end time.Time) (*calendar.Event, error) {
	srv, err := calendar.NewService(ctx, s.client(ctx, accessToken, refreshToken, onTokenRefresh))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}

	event := &calendar.Event{
		Summary: title,
		Start: &calendar.EventDateTime{
			DateTime: start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: end.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	created, err := srv.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create event: %v", err)
	}

	log.Printf("[DEBUG] calendar event created: %s", created.HtmlLink)
	return created, nil
}

// composeMessage builds an RFC 822 message and encodes it the way the
// Gmail API expects raw payloads (URL-safe base64).
func composeMessage(recipient, subject, body string) (string, error) {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("To", []*mail.Address{{Address: recipient}})
	h.SetSubject(subject)

	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}
