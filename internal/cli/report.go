package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/ogulcanaydogan/oaiusage/internal/config"
	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/ogulcanaydogan/oaiusage/pkg/report"
	"github.com/ogulcanaydogan/oaiusage/pkg/usage"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	budgetUSD    float64
)

func init() {
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
	rootCmd.Flags().Float64Var(&budgetUSD, "budget", 0, "spend limit in USD for the report window (overrides budget.limit_usd)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	days := cfg.Report.Days
	if len(args) == 1 {
		days, err = parseDays(args[0])
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("output") {
		cfg.Report.Output = outputFormat
	}
	if cmd.Flags().Changed("budget") {
		cfg.Budget.LimitUSD = budgetUSD
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	return executeReport(cmd.Context(), cfg, days, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// parseDays validates the positional look-back argument.
func parseDays(arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("number of days %s is too large: must be at most %d", arg, uint64(model.MaxDays))
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number of days %q: please provide a positive integer", arg)
	}
	if n == 0 {
		return 0, errors.New("number of days must be greater than 0")
	}
	return uint(n), nil
}

// executeReport fetches, prices and renders usage for the last days days.
// With JSON output the banner, progress and budget lines go to errOut so out
// carries only the document.
func executeReport(ctx context.Context, cfg *config.Config, days uint, out, errOut io.Writer, logger *slog.Logger) error {
	if cfg.API.AdminKey == "" {
		return fmt.Errorf("%s environment variable not set", config.AdminKeyEnv)
	}

	table, err := initPricing(cfg)
	if err != nil {
		return err
	}

	info := out
	if cfg.Report.Output == "json" {
		info = errOut
	}

	fmt.Fprintf(info, "Fetching OpenAI usage data for the past %d days...\n", days)

	client := usage.NewClient(usage.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		APIKey:            cfg.API.AdminKey,
		Timeout:           cfg.API.Timeout,
		MaxPages:          cfg.Fetch.MaxPages,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Progress:          info,
	}, logger)

	now := time.Now()
	startTime := model.StartTimeDaysAgo(now, days)
	buckets, err := client.FetchCompletions(ctx, startTime)
	if err != nil {
		return fmt.Errorf("fetch usage: %w", err)
	}

	rep := report.Build(buckets, table, logger)

	if cfg.Report.Output == "json" {
		err = report.RenderJSON(out, rep)
	} else {
		err = report.Render(out, rep)
	}
	if err != nil {
		return err
	}

	if cfg.Budget.LimitUSD > 0 {
		checker := report.NewBudgetChecker(initNotifiers(cfg), logger)
		status := checker.Check(ctx, report.Budget{
			LimitUSD:          cfg.Budget.LimitUSD,
			AlertThresholdPct: cfg.Budget.AlertAt,
			WindowDays:        days,
			Since:             time.Unix(startTime, 0).UTC().Format("2006-01-02"),
		}, rep.Totals.CostUSD)
		fmt.Fprintln(info, status)
	}

	return nil
}
