package report

import (
	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
)

const tokensPerMillion = 1_000_000.0

// Cost computes the USD cost of one usage record. Cached input tokens are
// billed at the cached rate and the remaining input at the full input rate.
// A record reporting more cached than total input tokens is billed as if it
// had no uncached input.
func Cost(rec model.UsageRecord, p pricing.ModelPricing) float64 {
	inputCost := float64(rec.NonCachedInputTokens()) / tokensPerMillion * p.InputPerMillion
	cachedCost := float64(rec.InputCachedTokens) / tokensPerMillion * p.CachedInputPerMillion
	outputCost := float64(rec.OutputTokens) / tokensPerMillion * p.OutputPerMillion

	return inputCost + cachedCost + outputCost
}
