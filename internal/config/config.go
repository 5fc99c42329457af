package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/spf13/viper"
)

// AdminKeyEnv is the environment variable holding the organization admin key.
const AdminKeyEnv = "OPENAI_ADMIN_KEY"

const dirName = ".oaiusage"

// Config holds all oaiusage configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Report  ReportConfig  `mapstructure:"report"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Logging LoggingConfig `mapstructure:"logging"`
	Budget  BudgetConfig  `mapstructure:"budget"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
}

// APIConfig defines how the usage API is reached.
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	AdminKey string        `mapstructure:"admin_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FetchConfig bounds the pagination loop. MaxPages 0 means unlimited.
type FetchConfig struct {
	MaxPages          int     `mapstructure:"max_pages"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// ReportConfig defines the default report window and output format.
type ReportConfig struct {
	Days   uint   `mapstructure:"days"`
	Output string `mapstructure:"output"`
}

// PricingConfig points at an optional pricing override file.
type PricingConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BudgetConfig defines the spend limit for the report window.
type BudgetConfig struct {
	LimitUSD float64 `mapstructure:"limit_usd"`
	AlertAt  float64 `mapstructure:"alert_at"`
}

// AlertsConfig defines alerting integrations.
type AlertsConfig struct {
	Slack   SlackConfig   `mapstructure:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// Load reads configuration from .env files, the config file and environment
// variables, in increasing order of precedence over the defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}

	if err := loadDotEnv(".env", filepath.Join(home, dirName, ".env")); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("api.base_url", "https://api.openai.com")
	v.SetDefault("api.admin_key", "")
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("fetch.max_pages", 1000)
	v.SetDefault("fetch.requests_per_second", 5.0)
	v.SetDefault("report.days", 3)
	v.SetDefault("report.output", "table")
	v.SetDefault("pricing.file", "")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.SetDefault("budget.limit_usd", 0.0)
	v.SetDefault("budget.alert_at", 80.0)
	v.SetDefault("alerts.slack.enabled", false)
	v.SetDefault("alerts.slack.webhook_url", "")
	v.SetDefault("alerts.slack.channel", "#openai-costs")
	v.SetDefault("alerts.webhook.enabled", false)
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("alerts.webhook.secret", "")

	v.SetEnvPrefix("OAIUSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.admin_key", AdminKeyEnv); err != nil {
		return nil, fmt.Errorf("bind %s: %w", AdminKeyEnv, err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the report cannot run with.
func (c *Config) Validate() error {
	switch c.Report.Output {
	case "table", "json":
	default:
		return fmt.Errorf("invalid report.output %q: must be table or json", c.Report.Output)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q: must be text or json", c.Logging.Format)
	}
	if c.Report.Days == 0 {
		return errors.New("report.days must be greater than 0")
	}
	if uint64(c.Report.Days) > model.MaxDays {
		return fmt.Errorf("report.days must be at most %d", uint64(model.MaxDays))
	}
	if c.Fetch.MaxPages < 0 {
		return errors.New("fetch.max_pages must not be negative")
	}
	if c.Budget.LimitUSD < 0 {
		return errors.New("budget.limit_usd must not be negative")
	}
	if c.Budget.AlertAt <= 0 || c.Budget.AlertAt > 100 {
		return fmt.Errorf("budget.alert_at must be in (0, 100], got %g", c.Budget.AlertAt)
	}
	return nil
}

// loadDotEnv loads each existing file into the environment without
// overriding variables that are already set.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
