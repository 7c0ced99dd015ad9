package delivery

import (
	"errors"
	"log"
	"net/http"

	emaildto "mailbridge-backend/internal/email/dto"
	"mailbridge-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

// EmailHandler serves the outbound mail and calendar endpoints
type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

// SendEmail sends an email through the provider named in the request
func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req emaildto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.emailUsecase.SendEmail(c.Request.Context(), c.GetString("identity"), &req)
	if err != nil {
		h.fail(c, err, "failed to send email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": resp})
}

// CreateEvent creates a calendar event through the provider named in the request
func (h *EmailHandler) CreateEvent(c *gin.Context) {
	var req emaildto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.emailUsecase.CreateEvent(c.Request.Context(), c.GetString("identity"), &req)
	if err != nil {
		h.fail(c, err, "failed to create event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": resp})
}

func (h *EmailHandler) fail(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, usecase.ErrNoLinkedAccount):
		c.JSON(http.StatusNotFound, gin.H{"error": "no linked account for this provider"})
	case errors.Is(err, usecase.ErrInvalidEventTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[ERROR] %s: %v", generic, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": generic})
	}
}
