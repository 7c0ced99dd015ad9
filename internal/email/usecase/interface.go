package usecase

import (
	"context"
	"errors"

	emaildto "mailbridge-backend/internal/email/dto"
)

var (
	// ErrNoLinkedAccount means the identity has no stored record for the
	// requested provider; the user must complete that provider's login first.
	ErrNoLinkedAccount = errors.New("no linked account for provider")

	// ErrInvalidEventTime means an event timestamp could not be parsed
	// or the range is inverted.
	ErrInvalidEventTime = errors.New("invalid event time")
)

// EmailUsecase sends mail and creates calendar events through the
// provider tied to the caller's stored user record.
type EmailUsecase interface {
	SendEmail(ctx context.Context, identity string, req *emaildto.SendEmailRequest) (*emaildto.SendEmailResponse, error)
	CreateEvent(ctx context.Context, identity string, req *emaildto.CreateEventRequest) (*emaildto.CreateEventResponse, error)
}
