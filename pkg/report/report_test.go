package report_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
	"github.com/ogulcanaydogan/oaiusage/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func defaultTable(t *testing.T) *pricing.Table {
	t.Helper()
	tbl, err := pricing.Default()
	require.NoError(t, err)
	return tbl
}

// 2025-01-11 and 2025-01-12 UTC.
const (
	day1 = 1736553600
	day2 = day1 + 86400
)

func TestBuild_RowOrderAndTotals(t *testing.T) {
	buckets := []model.UsageBucket{
		{StartTime: day1, Results: []model.UsageRecord{
			{Model: strPtr("gpt-4.1-2025-04-14"), InputTokens: 2_000_000, InputCachedTokens: 500_000, OutputTokens: 1_000_000, NumModelRequests: 10},
			{Model: strPtr("gpt-5-mini"), InputTokens: 1_000_000, OutputTokens: 0, NumModelRequests: 3},
		}},
		{StartTime: day2, Results: []model.UsageRecord{
			{Model: strPtr("gpt-4.1-2025-04-14"), InputTokens: 100, NumModelRequests: 1},
		}},
	}

	rep := report.Build(buckets, defaultTable(t), discardLogger())
	require.Len(t, rep.Rows, 3)

	assert.Equal(t, "2025-01-11", rep.Rows[0].Date)
	assert.Equal(t, "gpt-4.1-2025-04-14", rep.Rows[0].Model)
	assert.Equal(t, "gpt-4.1", rep.Rows[0].BaseModel)
	assert.True(t, rep.Rows[0].Priced)
	assert.InDelta(t, 11.25, rep.Rows[0].CostUSD, 1e-9)
	assert.Equal(t, uint64(1_500_000), rep.Rows[0].InputTokens)
	assert.Equal(t, uint64(500_000), rep.Rows[0].CachedTokens)

	assert.Equal(t, "gpt-5-mini", rep.Rows[1].Model)
	assert.InDelta(t, 0.25, rep.Rows[1].CostUSD, 1e-9)

	assert.Equal(t, "2025-01-12", rep.Rows[2].Date)

	assert.Equal(t, uint64(14), rep.Totals.Requests)
	assert.Equal(t, uint64(2_500_100), rep.Totals.InputTokens)
	assert.Equal(t, uint64(500_000), rep.Totals.CachedTokens)
	assert.Equal(t, uint64(1_000_000), rep.Totals.OutputTokens)
	assert.InDelta(t, 11.25+0.25+0.0002, rep.Totals.CostUSD, 1e-9)
	assert.Zero(t, rep.Anomalies)
}

func TestBuild_DoesNotGroupDuplicates(t *testing.T) {
	rec := model.UsageRecord{Model: strPtr("o3"), InputTokens: 10, NumModelRequests: 1}
	buckets := []model.UsageBucket{{StartTime: day1, Results: []model.UsageRecord{rec, rec}}}

	rep := report.Build(buckets, defaultTable(t), discardLogger())
	assert.Len(t, rep.Rows, 2)
	assert.Equal(t, uint64(2), rep.Totals.Requests)
}

func TestBuild_UnpricedModel(t *testing.T) {
	buckets := []model.UsageBucket{{StartTime: day1, Results: []model.UsageRecord{
		{Model: strPtr("text-embedding-3-small"), InputTokens: 5000, OutputTokens: 7, NumModelRequests: 2},
	}}}

	rep := report.Build(buckets, defaultTable(t), discardLogger())
	require.Len(t, rep.Rows, 1)
	row := rep.Rows[0]
	assert.False(t, row.Priced)
	assert.Equal(t, "text-embedding-3-small", row.BaseModel)
	assert.Zero(t, row.CostUSD)
	assert.Equal(t, uint64(5000), rep.Totals.InputTokens)
	assert.Equal(t, uint64(7), rep.Totals.OutputTokens)
	assert.Zero(t, rep.Totals.CostUSD)
}

func TestBuild_MissingModel(t *testing.T) {
	buckets := []model.UsageBucket{{StartTime: day1, Results: []model.UsageRecord{
		{InputTokens: 1_000_000, OutputTokens: 1_000_000, NumModelRequests: 4},
	}}}

	rep := report.Build(buckets, defaultTable(t), discardLogger())
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, model.UnknownModel, rep.Rows[0].Model)
	assert.Empty(t, rep.Rows[0].BaseModel)
	assert.False(t, rep.Rows[0].Priced)
	assert.Zero(t, rep.Totals.CostUSD)
	assert.Equal(t, uint64(4), rep.Totals.Requests)
}

func TestBuild_Empty(t *testing.T) {
	rep := report.Build(nil, defaultTable(t), discardLogger())
	assert.NotNil(t, rep.Rows)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, report.Totals{}, rep.Totals)
}

func TestBuild_CachedExceedsInput(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	buckets := []model.UsageBucket{{StartTime: day1, Results: []model.UsageRecord{
		{Model: strPtr("gpt-4.1"), InputTokens: 100, InputCachedTokens: 1_000_000, NumModelRequests: 1},
	}}}

	rep := report.Build(buckets, defaultTable(t), logger)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 1, rep.Anomalies)
	assert.Zero(t, rep.Rows[0].InputTokens)
	assert.InDelta(t, 0.5, rep.Rows[0].CostUSD, 1e-9)
	assert.Contains(t, logs.String(), "cached tokens exceed input tokens")
}
