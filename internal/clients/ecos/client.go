// Package ecos provides a client for the Bank of Korea ECOS statistics API
package ecos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const (
	DefaultBaseURL   = "https://ecos.bok.or.kr"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	// Row window requested per call. Wide enough that even daily-cycle
	// queries over multi-decade ranges come back in one page.
	maxRows = 10000
)

// Client implements the ECOSClient interface. The ECOS API embeds the key in
// the URL path and wraps rows under a root object named after the service, so
// decoding goes through gjson rather than fixed structs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	fetcher    *fetch.Fetcher
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new ECOS client. apiKey may be empty.
func NewClient(fetcher *fetch.Fetcher, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetSeries retrieves a statistic from ECOS. The key is embedded in the URL
// path per the ECOS convention and excluded from the request signature.
func (c *Client) GetSeries(ctx context.Context, query interfaces.ECOSQuery) (*models.MacroSeries, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ECOS stat %s: %w (set BOK_API_KEY)", query.StatCode, fetch.ErrMissingCredential)
	}
	if query.StatCode == "" {
		return nil, fmt.Errorf("ECOS query requires a stat code")
	}

	cycle := query.Cycle
	if cycle == "" {
		cycle = "M"
	}

	segments := []string{
		"api", "StatisticSearch", c.apiKey, "json", "kr",
		"1", strconv.Itoa(maxRows),
		query.StatCode, cycle, query.Start, query.End,
	}
	for _, item := range []string{query.ItemCode1, query.ItemCode2, query.ItemCode3} {
		if item != "" {
			segments = append(segments, item)
		}
	}
	reqURL := c.baseURL + "/" + strings.Join(segments, "/")

	sig := fetch.NewSignature("ecos.statistic", map[string]string{
		"stat":  query.StatCode,
		"cycle": cycle,
		"start": query.Start,
		"end":   query.End,
		"item1": query.ItemCode1,
		"item2": query.ItemCode2,
		"item3": query.ItemCode3,
	})

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("ECOS stat %s", query.StatCode), out)
	}

	body := string(out.Payload)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("ECOS stat %s: invalid JSON response", query.StatCode)
	}

	// ECOS reports errors under a RESULT root instead of an HTTP status.
	if result := gjson.Get(body, "RESULT"); result.Exists() {
		return nil, fmt.Errorf("ECOS stat %s: %s (%s)",
			query.StatCode, result.Get("MESSAGE").String(), result.Get("CODE").String())
	}

	rows := gjson.Get(body, "StatisticSearch.row")
	if !rows.Exists() {
		return nil, fmt.Errorf("ECOS stat %s: no rows in response", query.StatCode)
	}

	series := &models.MacroSeries{SeriesID: query.StatCode}
	rows.ForEach(func(_, row gjson.Result) bool {
		if series.Title == "" {
			series.Title = strings.TrimSpace(row.Get("STAT_NAME").String())
		}
		if series.Unit == "" {
			series.Unit = strings.TrimSpace(row.Get("UNIT_NAME").String())
		}
		series.Observations = append(series.Observations, models.MacroObservation{
			Date:  row.Get("TIME").String(),
			Value: parseValue(row.Get("DATA_VALUE").String()),
		})
		return true
	})

	c.logger.Info().
		Str("stat_code", query.StatCode).
		Str("cycle", cycle).
		Int("observations", len(series.Observations)).
		Msg("ECOS series fetched")

	return series, nil
}

func (c *Client) produce(reqURL string) fetch.Producer {
	return func(ctx context.Context) fetch.Outcome {
		if err := c.limiter.Wait(ctx); err != nil {
			return fetch.Retryable("rate limit wait", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fetch.Fatal("failed to create request", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fetch.Retryable("request failed", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fetch.Retryable("failed to read response", err)
		}

		switch fetch.ClassifyStatus(resp.StatusCode) {
		case fetch.ClassSuccess:
			return fetch.Success(body)
		case fetch.ClassRetryable:
			return fetch.Retryable(fmt.Sprintf("status %d", resp.StatusCode), nil)
		default:
			return fetch.Fatal(fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil)
		}
	}
}

// parseValue converts an ECOS data value; blank cells map to nil.
func parseValue(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func outcomeErr(operation string, out fetch.Outcome) error {
	if out.Err != nil {
		return fmt.Errorf("%s: %w", operation, out.Err)
	}
	return fmt.Errorf("%s: %s", operation, out.Reason)
}

// Ensure Client implements ECOSClient
var _ interfaces.ECOSClient = (*Client)(nil)
