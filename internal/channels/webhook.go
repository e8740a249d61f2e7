// internal/channels/webhook.go
package channels

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"keyexpiry-workers/internal/common/httpclient"
	"keyexpiry-workers/internal/models"
)

// webhookPayload is the wire format POSTed to the owner's endpoint.
type webhookPayload struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"eventType"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// WebhookSender POSTs a JSON payload to the configured URL, signed with
// the owner's shared secret: hex HMAC-SHA256 of the body in the
// X-Signature-256 header.
type WebhookSender struct {
	client *httpclient.Client
}

func NewWebhookSender(client *httpclient.Client) *WebhookSender {
	return &WebhookSender{client: client}
}

func (s *WebhookSender) Kind() string { return models.ChannelWebhook }

func (s *WebhookSender) Send(ctx context.Context, settings models.ChannelSettings, n *models.Notification) error {
	if settings.URL == "" || settings.Secret == "" {
		return fmt.Errorf("webhook channel settings missing url or secret")
	}

	payload := webhookPayload{
		ID:        n.ID,
		EventType: n.EventType,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, settings.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", n.EventType)
	req.Header.Set("X-Signature-256", "sha256="+Sign(settings.Secret, body))

	resp, err := s.client.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
