package alerts_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ogulcanaydogan/oaiusage/pkg/alerts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_Name(t *testing.T) {
	n := alerts.NewWebhookNotifier("https://example.com/webhook", "")
	assert.Equal(t, "webhook", n.Name())
}

func TestWebhookNotifier_Send(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "oaiusage/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, http.MethodPost, r.Method)

		err := json.NewDecoder(r.Body).Decode(&received)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "")
	alert := sampleAlert(alerts.AlertCritical)
	alert.LimitUSD = 500
	alert.CurrentSpend = 490

	err := n.Send(context.Background(), alert)
	require.NoError(t, err)
	assert.Equal(t, "spend_alert", received["event"])
	assert.NotEmpty(t, received["timestamp"])
	payload, ok := received["alert"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "critical", payload["level"])
	assert.Equal(t, float64(30), payload["window_days"])
	assert.Equal(t, "2025-01-01", payload["since"])
}

func TestWebhookNotifier_Send_WithHMAC(t *testing.T) {
	var signature string
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get("X-Signature-256")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "test-secret")
	err := n.Send(context.Background(), alerts.Alert{Level: alerts.AlertWarning})
	require.NoError(t, err)
	assert.Equal(t, "sha256="+alerts.Sign(body, "test-secret"), signature)
}

func TestWebhookNotifier_Send_NoHMAC(t *testing.T) {
	var hasSignature bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasSignature = r.Header.Get("X-Signature-256") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "")
	err := n.Send(context.Background(), alerts.Alert{Level: alerts.AlertWarning})
	require.NoError(t, err)
	assert.False(t, hasSignature)
}

func TestWebhookNotifier_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "")
	err := n.Send(context.Background(), alerts.Alert{Level: alerts.AlertWarning})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestSign(t *testing.T) {
	// echo -n 'hello' | openssl dgst -sha256 -hmac key
	assert.Equal(t,
		"9307b3b915efb5171ff14d8cb55fbcc798c6c0ef1456d66ded1a6aa723a58b7b",
		alerts.Sign([]byte("hello"), "key"))
}
