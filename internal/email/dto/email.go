package dto

type SendEmailRequest struct {
	Provider  string `json:"provider" binding:"required"`
	Recipient string `json:"recipient" binding:"required,email"`
	Subject   string `json:"subject" binding:"required"`
	Body      string `json:"body" binding:"required"`
}

type SendEmailResponse struct {
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
}

type CreateEventRequest struct {
	Provider  string `json:"provider" binding:"required"`
	Title     string `json:"title" binding:"required"`
	StartTime string `json:"start_time" binding:"required"` // RFC 3339
	EndTime   string `json:"end_time" binding:"required"`   // RFC 3339
}

type CreateEventResponse struct {
	Provider string `json:"provider"`
	EventID  string `json:"event_id,omitempty"`
	Link     string `json:"link,omitempty"`
}
