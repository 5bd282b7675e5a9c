// Package resend provides a client for the Resend transactional email API.
package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the email operations used by this application.
type Client interface {
	// Send delivers one email and returns the provider message id.
	Send(ctx context.Context, msg *Email) (string, error)
}

// Email is a single outbound message.
type Email struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
	Tags        map[string]string
	// IdempotencyKey makes retried sends safe on the provider side.
	IdempotencyKey string
}

// Attachment is a file sent along with an email.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resend: status %d: %s: %s", e.StatusCode, e.Name, e.Message)
}

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
	Tags        []tag        `json:"tags,omitempty"`
}

type attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry sets the number of attempts and the initial backoff for
// transient failures (429, 5xx and transport errors). Without it a send is
// attempted once.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *httpClient) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	attempts int
	backoff  time.Duration
}

// NewClient creates a new Resend client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  "https://api.resend.com",
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: 1,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *httpClient) Send(ctx context.Context, msg *Email) (string, error) {
	if msg == nil || len(msg.To) == 0 {
		return "", eris.New("resend: message has no recipients")
	}

	payload := sendRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, attachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}
	for _, k := range slices.Sorted(maps.Keys(msg.Tags)) {
		payload.Tags = append(payload.Tags, tag{Name: k, Value: msg.Tags[k]})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "resend: marshal request")
	}

	respBody, status, err := c.do(ctx, body, msg.IdempotencyKey)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		apiErr := &APIError{StatusCode: status}
		if jerr := json.Unmarshal(respBody, apiErr); jerr != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		apiErr.StatusCode = status
		return "", apiErr
	}

	var out sendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", eris.Wrap(err, "resend: unmarshal response")
	}
	return out.ID, nil
}

// do posts body to /emails, retrying transient failures with exponential
// backoff. The final response is returned whatever its status.
func (c *httpClient) do(ctx context.Context, body []byte, idempotencyKey string) ([]byte, int, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
		if err != nil {
			return nil, 0, eris.Wrap(err, "resend: create request")
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		resp, err := c.http.Do(req)
		if err == nil {
			respBody, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, resp.StatusCode, eris.Wrap(readErr, "resend: read response body")
			}
			if !retryableStatusCode(resp.StatusCode) || attempt == c.attempts {
				return respBody, resp.StatusCode, nil
			}
			lastErr = eris.Errorf("resend: status %d", resp.StatusCode)
		} else {
			lastErr = eris.Wrap(err, "resend: request failed")
			if attempt == c.attempts {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, 0, eris.Wrap(ctx.Err(), "resend: request cancelled")
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, 0, lastErr
}
