package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client is a thin Microsoft Graph client over a timeout-bounded
// http.Client. Callers supply the user's Graph access token per request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// User is the subset of the Graph /me resource we need.
type User struct {
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Email returns the user's address: mail when present, otherwise the
// principal name (personal accounts often have no mail attribute).
func (u *User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Event is the subset of a created Graph event we surface.
type Event struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	WebLink string `json:"webLink"`
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFrom(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PhotoDataURL fetches the user's photo as a base64 data URL. A missing
// photo is not an error; the empty string is returned instead.
func (c *Client) PhotoDataURL(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/me/photo/$value", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	photo, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo), nil
}

// SendMail sends a plain-text email through /me/sendMail. Graph answers
// 202 Accepted on success.
func (c *Client) SendMail(ctx context.Context, accessToken, recipient, subject, body string) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"subject": subject,
			"body": map[string]string{
				"contentType": "Text",
				"content":     body,
			},
			"toRecipients": []map[string]interface{}{
				{"emailAddress": map[string]string{"address": recipient}},
			},
		},
		"saveToSentItems": "true",
	}

	resp, err := c.post(ctx, accessToken, "/me/sendMail", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return c.errorFrom(resp)
	}
	log.Printf("[DEBUG] graph mail sent to %s", recipient)
	return nil
}

// CreateEvent creates a calendar event on the user's default calendar.
// Graph answers 201 Created on success.
func (c *Client) CreateEvent(ctx context.Context, accessToken, title string, start, end time.Time) (*Event, error) {
	payload := map[string]interface{}{
		"subject": title,
		"start": map[string]string{
			"dateTime": start.UTC().Format("2006-01-02T15:04:05"),
			"timeZone": "UTC",
		},
		"end": map[string]string{
			"dateTime": end.UTC().Format("2006-01-02T15:04:05"),
			"timeZone": "UTC",
		},
	}

	resp, err := c.post(ctx, accessToken, "/me/events", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.errorFrom(resp)
	}

	var event Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] graph event created: %s", event.WebLink)
	return &event, nil
}

func (c *Client) post(ctx context.Context, accessToken, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	return c.HTTPClient.Do(req)
}

// errorFrom reduces a Graph error body to its message field.
func (c *Client) errorFrom(resp *http.Response) error {
	var graphErr struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&graphErr); err == nil && graphErr.Error.Message != "" {
		return fmt.Errorf("graph request failed (%d): %s", resp.StatusCode, graphErr.Error.Message)
	}
	return fmt.Errorf("graph request failed with status %d", resp.StatusCode)
}
