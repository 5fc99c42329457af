package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ogulcanaydogan/oaiusage/internal/config"
	"github.com/ogulcanaydogan/oaiusage/pkg/alerts"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "oaiusage [days]",
	Short: "Report OpenAI organization token usage and cost",
	Long: `oaiusage reads the organization completions usage of the last N days
(default 3) from the OpenAI usage API, prices every day and model with the
built-in pricing table and prints the result as a table with a TOTAL row.

The admin key is read from OPENAI_ADMIN_KEY, which may also be set in a .env
file in the working directory or in ~/.oaiusage/.env.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runReport,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.oaiusage/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config writing to w.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initPricing loads the pricing table, preferring the configured override file.
func initPricing(cfg *config.Config) (*pricing.Table, error) {
	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return nil, fmt.Errorf("load pricing: %w", err)
	}
	return table, nil
}

// initNotifiers creates alert notifiers from config.
func initNotifiers(cfg *config.Config) []alerts.Notifier {
	var notifiers []alerts.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}
