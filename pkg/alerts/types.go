package alerts

import "context"

// AlertLevel indicates how far spend has progressed towards the budget.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"  // Past the configured threshold
	AlertCritical AlertLevel = "critical" // At or above 95% of the limit
	AlertExceeded AlertLevel = "exceeded" // Limit exceeded
)

// Alert is a spend notification for one report window.
type Alert struct {
	Level        AlertLevel `json:"level"`
	WindowDays   uint       `json:"window_days"`
	Since        string     `json:"since"`
	LimitUSD     float64    `json:"limit_usd"`
	CurrentSpend float64    `json:"current_spend"`
	ThresholdPct float64    `json:"threshold_pct"`
	Message      string     `json:"message"`
}

// Notifier sends alerts to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert.
	Send(ctx context.Context, alert Alert) error
}
