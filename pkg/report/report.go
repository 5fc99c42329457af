package report

import (
	"log/slog"

	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
)

// Row is one (day, model) line of the report.
type Row struct {
	Date         string  `json:"date"`
	Model        string  `json:"model"`
	BaseModel    string  `json:"base_model"`
	Priced       bool    `json:"priced"`
	Requests     uint64  `json:"requests"`
	InputTokens  uint64  `json:"input_tokens"`
	CachedTokens uint64  `json:"cached_input_tokens"`
	OutputTokens uint64  `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Totals are the sums over every row. InputTokens excludes cached tokens.
type Totals struct {
	Requests     uint64  `json:"requests"`
	InputTokens  uint64  `json:"input_tokens"`
	CachedTokens uint64  `json:"cached_input_tokens"`
	OutputTokens uint64  `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Report is the priced view of a usage window.
type Report struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`

	// Anomalies counts records with more cached than total input tokens.
	Anomalies int `json:"anomalies,omitempty"`
}

// Build prices every record of every bucket, in bucket then record order,
// and sums the totals. Records without a model, or whose base model has no
// price, cost exactly zero but still count towards token totals.
func Build(buckets []model.UsageBucket, table *pricing.Table, logger *slog.Logger) *Report {
	rep := &Report{Rows: make([]Row, 0)}

	for _, bucket := range buckets {
		date := bucket.Date()

		for _, rec := range bucket.Results {
			row := Row{
				Date:         date,
				Model:        rec.ModelName(),
				Requests:     rec.NumModelRequests,
				InputTokens:  rec.NonCachedInputTokens(),
				CachedTokens: rec.InputCachedTokens,
				OutputTokens: rec.OutputTokens,
			}

			if rec.Model != nil {
				base, p, ok := table.Resolve(*rec.Model)
				row.BaseModel = base
				if ok {
					row.Priced = true
					row.CostUSD = Cost(rec, p)
				}
			}

			if rec.CachedExceedsInput() {
				rep.Anomalies++
				logger.Warn("cached tokens exceed input tokens",
					"date", date,
					"model", row.Model,
					"input_tokens", rec.InputTokens,
					"input_cached_tokens", rec.InputCachedTokens,
				)
			}
			if !row.Priced {
				logger.Debug("no pricing for model", "model", row.Model, "base_model", row.BaseModel)
			}

			rep.Totals.Requests += row.Requests
			rep.Totals.InputTokens += row.InputTokens
			rep.Totals.CachedTokens += row.CachedTokens
			rep.Totals.OutputTokens += row.OutputTokens
			rep.Totals.CostUSD += row.CostUSD

			rep.Rows = append(rep.Rows, row)
		}
	}

	return rep
}
