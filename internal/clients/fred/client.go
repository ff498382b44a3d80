// Package fred provides a client for the St. Louis Fed FRED observations API
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const (
	DefaultBaseURL   = "https://api.stlouisfed.org"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Client implements the FREDClient interface. The client is always
// constructed even without an API key; calls report the missing credential
// so the caller can fall back instead of failing at wiring time.
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

// NewClient creates a new FRED client. apiKey may be empty.
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

type observationsResponse struct {
	Units        string `json:"units"`
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// GetSeries retrieves observations for a FRED series. The API key never
// enters the request signature, so two deployments with different keys share
// cache entries for the same logical request.
func (c *Client) GetSeries(ctx context.Context, seriesID string, opts ...interfaces.SeriesOption) (*models.MacroSeries, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("FRED series %s: %w (set FRED_API_KEY)", seriesID, fetch.ErrMissingCredential)
	}

	var p interfaces.SeriesParams
	for _, opt := range opts {
		opt(&p)
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	sigParams := map[string]string{"series_id": seriesID}
	if p.Start != "" {
		params.Set("observation_start", p.Start)
		sigParams["start"] = p.Start
	}
	if p.End != "" {
		params.Set("observation_end", p.End)
		sigParams["end"] = p.End
	}
	if p.Frequency != "" {
		params.Set("frequency", p.Frequency)
		sigParams["frequency"] = p.Frequency
	}
	if p.AggregationMethod != "" {
		params.Set("aggregation_method", p.AggregationMethod)
		sigParams["aggregation"] = p.AggregationMethod
	}

	reqURL := fmt.Sprintf("%s/fred/series/observations?%s", c.baseURL, params.Encode())
	sig := fetch.NewSignature("fred.observations", sigParams)

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("FRED series %s", seriesID), out)
	}

	var resp observationsResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode FRED response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return nil, fmt.Errorf("FRED series %s: %s", seriesID, resp.ErrorMessage)
	}

	series := &models.MacroSeries{
		SeriesID:     seriesID,
		Unit:         resp.Units,
		Observations: make([]models.MacroObservation, 0, len(resp.Observations)),
	}
	for _, obs := range resp.Observations {
		series.Observations = append(series.Observations, models.MacroObservation{
			Date:  obs.Date,
			Value: parseValue(obs.Value),
		})
	}

	c.logger.Info().
		Str("series_id", seriesID).
		Int("observations", len(series.Observations)).
		Msg("FRED series fetched")

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

// parseValue converts a FRED observation value. The API reports missing
// observations as "." which maps to nil, not zero.
func parseValue(raw string) *float64 {
	if raw == "" || raw == "." {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
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

// Ensure Client implements FREDClient
var _ interfaces.FREDClient = (*Client)(nil)
