package alerts

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts spend alerts as JSON to an arbitrary endpoint.
type WebhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhookNotifier creates a generic webhook notifier.
// With a non-empty secret the body is signed with HMAC-SHA256 in X-Signature-256.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: newHTTPClient(),
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(webhookPayload{
		Event:     "spend_alert",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Alert:     alert,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	headers := map[string]string{"User-Agent": "oaiusage/1.0"}
	if w.secret != "" {
		headers["X-Signature-256"] = "sha256=" + Sign(body, w.secret)
	}

	if err := postJSON(ctx, w.client, w.url, body, headers); err != nil {
		return fmt.Errorf("webhook %w", err)
	}
	return nil
}

type webhookPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Alert     Alert  `json:"alert"`
}

// Sign returns the hex HMAC-SHA256 of message under secret.
func Sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
