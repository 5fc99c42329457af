package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackNotifier posts spend alerts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client:     newHTTPClient(),
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(s.payload(alert))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	if err := postJSON(ctx, s.client, s.webhookURL, body, nil); err != nil {
		return fmt.Errorf("slack %w", err)
	}
	return nil
}

func (s *SlackNotifier) payload(alert Alert) slackPayload {
	return slackPayload{
		Channel: s.channel,
		Attachments: []slackAttachment{
			{
				Color: levelColor(alert.Level),
				Title: fmt.Sprintf("OpenAI spend %s", alert.Level),
				Text:  alert.Message,
				Fields: []slackField{
					{Title: "Window", Value: fmt.Sprintf("last %d days", alert.WindowDays), Short: true},
					{Title: "Since", Value: alert.Since, Short: true},
					{Title: "Spend", Value: fmt.Sprintf("$%.2f", alert.CurrentSpend), Short: true},
					{Title: "Limit", Value: fmt.Sprintf("$%.2f", alert.LimitUSD), Short: true},
					{Title: "Used", Value: usedPct(alert), Short: true},
				},
				Footer: "oaiusage",
				Ts:     time.Now().Unix(),
			},
		},
	}
}

func levelColor(level AlertLevel) string {
	switch level {
	case AlertWarning:
		return "#ff9900"
	case AlertCritical:
		return "#ff0000"
	case AlertExceeded:
		return "#cc0000"
	default:
		return "#36a64f"
	}
}

func usedPct(alert Alert) string {
	if alert.LimitUSD <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", alert.CurrentSpend/alert.LimitUSD*100)
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
