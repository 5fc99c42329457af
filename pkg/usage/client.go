package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogulcanaydogan/oaiusage/pkg/model"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the OpenAI API origin.
	DefaultBaseURL = "https://api.openai.com"

	completionsPath = "/v1/organization/usage/completions"
)

// ClientConfig configures a usage API client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// MaxPages caps how many pages a single fetch may request. Zero disables the cap.
	MaxPages int

	// RequestsPerSecond paces page requests. Zero or less means unpaced.
	RequestsPerSecond float64

	// Progress receives human readable pagination notices. May be nil.
	Progress io.Writer
}

// Client reads organization usage from the OpenAI usage API.
type Client struct {
	baseURL  string
	apiKey   string
	maxPages int
	client   *http.Client
	limiter  *rate.Limiter
	progress io.Writer
	logger   *slog.Logger
}

// NewClient creates a usage API client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	return &Client{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		maxPages: cfg.MaxPages,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:  rate.NewLimiter(limit, 1),
		progress: progress,
		logger:   logger,
	}
}

// FetchCompletions returns every daily, per-model completions bucket starting
// at startTime (epoch seconds). Pages are requested one after another until
// the API reports no further page; buckets keep the server's order.
// No partial result is returned on error.
func (c *Client) FetchCompletions(ctx context.Context, startTime int64) ([]model.UsageBucket, error) {
	var (
		buckets []model.UsageBucket
		cursor  string
		pages   int
	)

	for {
		if c.maxPages > 0 && pages >= c.maxPages {
			return nil, fmt.Errorf("%w: more than %d pages", ErrPageLimit, c.maxPages)
		}

		pages++
		if pages > 1 {
			fmt.Fprintf(c.progress, "Fetching page %d...\n", pages)
		}

		page, err := c.fetchPage(ctx, startTime, cursor, pages)
		if err != nil {
			return nil, err
		}

		buckets = append(buckets, page.Data...)

		if !page.HasNextPage() {
			break
		}
		cursor = *page.NextPage
	}

	if pages > 1 {
		fmt.Fprintf(c.progress, "Fetched %d pages total.\n", pages)
	}

	c.logger.Debug("usage fetched", "pages", pages, "buckets", len(buckets))
	return buckets, nil
}

func (c *Client) fetchPage(ctx context.Context, startTime int64, cursor string, pageNum int) (*model.UsagePage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	query := url.Values{}
	query.Set("start_time", strconv.FormatInt(startTime, 10))
	query.Set("group_by", "model")
	query.Set("bucket_width", "1d")
	if cursor != "" {
		query.Set("page", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+completionsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create usage request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Request-Id", requestID)

	c.logger.Debug("requesting usage page", "page", pageNum, "request_id", requestID, "cursor", cursor)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send usage request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read usage response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("usage request failed",
			"status", resp.StatusCode,
			"page", pageNum,
			"request_id", requestID,
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page model.UsagePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &ParseError{Page: pageNum, Err: err}
	}

	return &page, nil
}
