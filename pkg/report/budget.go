package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ogulcanaydogan/oaiusage/pkg/alerts"
)

const criticalPct = 95.0

// Budget is a spend limit applied to one report window.
type Budget struct {
	LimitUSD          float64
	AlertThresholdPct float64
	WindowDays        uint
	Since             string
}

// BudgetStatus is the outcome of comparing spend with a Budget.
// Level is empty while spend is under the alert threshold.
type BudgetStatus struct {
	Level    alerts.AlertLevel
	Spend    float64
	LimitUSD float64
	UsedPct  float64
}

// Alerting reports whether the status crossed any threshold.
func (s BudgetStatus) Alerting() bool { return s.Level != "" }

// String is the one-line status printed under the report table.
func (s BudgetStatus) String() string {
	label := "ok"
	if s.Alerting() {
		label = string(s.Level)
	}
	return fmt.Sprintf("Budget: $%.2f / $%.2f (%.1f%%) %s", s.Spend, s.LimitUSD, s.UsedPct, label)
}

// Evaluate compares spend against b. A non-positive limit never alerts.
func Evaluate(b Budget, spend float64) BudgetStatus {
	st := BudgetStatus{Spend: spend, LimitUSD: b.LimitUSD}
	if b.LimitUSD <= 0 {
		return st
	}
	st.UsedPct = spend / b.LimitUSD * 100

	switch {
	case st.UsedPct >= 100:
		st.Level = alerts.AlertExceeded
	case st.UsedPct >= criticalPct:
		st.Level = alerts.AlertCritical
	case st.UsedPct >= b.AlertThresholdPct:
		st.Level = alerts.AlertWarning
	}
	return st
}

// BudgetChecker evaluates a window's spend and dispatches alerts.
type BudgetChecker struct {
	notifiers []alerts.Notifier
	logger    *slog.Logger
}

// NewBudgetChecker creates a checker that sends to every notifier in order.
func NewBudgetChecker(notifiers []alerts.Notifier, logger *slog.Logger) *BudgetChecker {
	return &BudgetChecker{notifiers: notifiers, logger: logger}
}

// Check evaluates spend and, past the threshold, notifies. Delivery failures
// are logged and do not fail the check.
func (c *BudgetChecker) Check(ctx context.Context, b Budget, spend float64) BudgetStatus {
	st := Evaluate(b, spend)
	if !st.Alerting() {
		return st
	}

	alert := alerts.Alert{
		Level:        st.Level,
		WindowDays:   b.WindowDays,
		Since:        b.Since,
		LimitUSD:     b.LimitUSD,
		CurrentSpend: spend,
		ThresholdPct: b.AlertThresholdPct,
		Message: fmt.Sprintf("OpenAI spend over the last %d days at %.1f%% ($%.2f / $%.2f)",
			b.WindowDays, st.UsedPct, spend, b.LimitUSD),
	}

	c.logger.Warn("budget threshold crossed",
		"level", st.Level,
		"pct", st.UsedPct,
		"spend", spend,
		"limit", b.LimitUSD,
	)

	for _, n := range c.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			c.logger.Error("send alert failed", "notifier", n.Name(), "error", err)
		}
	}
	return st
}
