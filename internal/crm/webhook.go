package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// SecretHeader carries the shared secret on webhook requests.
const SecretHeader = "X-Webhook-Secret"

// Webhook posts contacts as JSON to a marketing-automation endpoint.
type Webhook struct {
	url    string
	secret string
	http   *http.Client
}

// NewWebhook creates a webhook sink. timeout bounds each POST.
func NewWebhook(url, secret string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{url: url, secret: secret, http: &http.Client{Timeout: timeout}}
}

// Name implements Sink.
func (w *Webhook) Name() string { return "webhook" }

// Push implements Sink. Any non-2xx response is an error.
func (w *Webhook) Push(ctx context.Context, c Contact) error {
	body, err := json.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "crm: marshal contact")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "crm: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set(SecretHeader, w.secret)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "crm: webhook request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return eris.Errorf("crm: webhook status %d: %s", resp.StatusCode, string(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
