package model

import (
	"math"
	"time"
)

// UnknownModel is shown for usage records the API returned without a model.
const UnknownModel = "unknown"

// MaxDays is the largest accepted look-back window.
const MaxDays = math.MaxUint32

const secondsPerDay = 24 * 60 * 60

// UsagePage is one page of the organization completions usage endpoint.
type UsagePage struct {
	Object   string        `json:"object"`
	Data     []UsageBucket `json:"data"`
	HasMore  bool          `json:"has_more"`
	NextPage *string       `json:"next_page"`
}

// HasNextPage reports whether another page should be requested. Both the
// has_more flag and a non-empty cursor are required.
func (p *UsagePage) HasNextPage() bool {
	return p.HasMore && p.NextPage != nil && *p.NextPage != ""
}

// UsageBucket is one day of usage, grouped by model.
type UsageBucket struct {
	StartTime int64         `json:"start_time"`
	EndTime   int64         `json:"end_time,omitempty"`
	Results   []UsageRecord `json:"results"`
}

// Date returns the bucket start as a UTC calendar date.
func (b UsageBucket) Date() string {
	return time.Unix(b.StartTime, 0).UTC().Format("2006-01-02")
}

// UsageRecord is a single model's usage inside a bucket.
// InputTokens includes InputCachedTokens.
type UsageRecord struct {
	Model             *string `json:"model"`
	InputTokens       uint64  `json:"input_tokens"`
	InputCachedTokens uint64  `json:"input_cached_tokens"`
	OutputTokens      uint64  `json:"output_tokens"`
	NumModelRequests  uint64  `json:"num_model_requests"`
}

// ModelName returns the reported model, or UnknownModel when absent.
func (r UsageRecord) ModelName() string {
	if r.Model == nil {
		return UnknownModel
	}
	return *r.Model
}

// CachedExceedsInput reports a record whose cached token count is larger
// than its total input token count.
func (r UsageRecord) CachedExceedsInput() bool {
	return r.InputCachedTokens > r.InputTokens
}

// NonCachedInputTokens returns input tokens that were not served from cache,
// clamped at zero.
func (r UsageRecord) NonCachedInputTokens() uint64 {
	if r.CachedExceedsInput() {
		return 0
	}
	return r.InputTokens - r.InputCachedTokens
}

// StartTimeDaysAgo returns now minus the given number of days as epoch seconds.
// Days above MaxDays are treated as MaxDays.
func StartTimeDaysAgo(now time.Time, days uint) int64 {
	if uint64(days) > MaxDays {
		days = MaxDays
	}
	return now.Unix() - int64(days)*secondsPerDay
}
