// Package yahoo provides a client for the Yahoo Finance chart and options APIs
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const (
	DefaultChartBaseURL   = "https://query1.finance.yahoo.com"
	DefaultOptionsBaseURL = "https://query2.finance.yahoo.com"
	DefaultTimeout        = 30 * time.Second
	DefaultRateLimit      = 5 // requests per second

	userAgent = "finnews/1.0"
)

// Client implements the ChartClient interface against Yahoo Finance.
// All calls go through the shared retrying fetcher; the client itself
// performs exactly one HTTP call per producer invocation.
type Client struct {
	chartBaseURL   string
	optionsBaseURL string
	httpClient     *http.Client
	fetcher        *fetch.Fetcher
	logger         *common.Logger
	limiter        *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithChartBaseURL sets the chart endpoint base URL
func WithChartBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.chartBaseURL = baseURL
	}
}

// WithOptionsBaseURL sets the options endpoint base URL
func WithOptionsBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.optionsBaseURL = baseURL
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

// NewClient creates a new Yahoo Finance client over the shared fetcher.
func NewClient(fetcher *fetch.Fetcher, opts ...ClientOption) *Client {
	c := &Client{
		chartBaseURL:   DefaultChartBaseURL,
		optionsBaseURL: DefaultOptionsBaseURL,
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

// chartResponse mirrors the Yahoo v8 chart payload. Quote arrays carry null
// for missing observations, hence the pointer element types.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetChart retrieves a historical price chart for a symbol.
func (c *Client) GetChart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error) {
	if chartRange == "" {
		chartRange = "1mo"
	}
	if interval == "" {
		interval = "1d"
	}

	params := url.Values{}
	params.Set("range", chartRange)
	params.Set("interval", interval)
	params.Set("includePrePost", "false")
	params.Set("events", "div,splits")

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.chartBaseURL, url.PathEscape(symbol), params.Encode())

	sig := fetch.NewSignature("yahoo.chart", map[string]string{
		"symbol":   symbol,
		"range":    chartRange,
		"interval": interval,
	})

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr("yahoo chart", out)
	}

	var resp chartResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if len(resp.Chart.Result) == 0 {
		if resp.Chart.Error != nil {
			return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, resp.Chart.Error.Description)
		}
		return nil, fmt.Errorf("no chart data for symbol %s", symbol)
	}

	result := resp.Chart.Result[0]
	series := &models.ChartSeries{
		Symbol:   symbol,
		Range:    chartRange,
		Interval: interval,
		Currency: result.Meta.Currency,
		Points:   make([]models.ChartPoint, 0, len(result.Timestamp)),
	}

	var quote struct {
		Open   []*float64
		High   []*float64
		Low    []*float64
		Close  []*float64
		Volume []*int64
	}
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		quote.Open, quote.High, quote.Low, quote.Close, quote.Volume = q.Open, q.High, q.Low, q.Close, q.Volume
	}

	for i, ts := range result.Timestamp {
		series.Points = append(series.Points, models.ChartPoint{
			Datetime: time.Unix(ts, 0).UTC(),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    at(quote.Close, i),
			Volume:   at(quote.Volume, i),
		})
	}

	series.Summary = summarize(series.Points)

	c.logger.Info().
		Str("symbol", symbol).
		Str("range", chartRange).
		Int("points", len(series.Points)).
		Msg("Yahoo chart fetched")

	return series, nil
}

// optionsResponse mirrors the Yahoo v7 options payload.
type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				ExpirationDate int64            `json:"expirationDate"`
				Calls          []optionContract `json:"calls"`
				Puts           []optionContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
	} `json:"optionChain"`
}

type optionContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
}

// GetOptionsChain retrieves the options chain for a symbol. expiration is an
// optional YYYY-MM-DD date; empty selects the nearest expiration.
func (c *Client) GetOptionsChain(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error) {
	params := url.Values{}
	sigParams := map[string]string{"symbol": symbol}

	if expiration != "" {
		t, err := time.Parse("2006-01-02", expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q (want YYYY-MM-DD): %w", expiration, err)
		}
		params.Set("date", fmt.Sprintf("%d", t.Unix()))
		sigParams["date"] = expiration
	}

	reqURL := fmt.Sprintf("%s/v7/finance/options/%s", c.optionsBaseURL, url.PathEscape(symbol))
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	sig := fetch.NewSignature("yahoo.options", sigParams)

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr("yahoo options", out)
	}

	var resp optionsResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode options response: %w", err)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("no options data for symbol %s", symbol)
	}

	result := resp.OptionChain.Result[0]
	chain := &models.OptionsChain{Symbol: symbol}
	for _, ts := range result.ExpirationDates {
		chain.Expirations = append(chain.Expirations, time.Unix(ts, 0).UTC())
	}
	if len(result.Options) > 0 {
		opt := result.Options[0]
		chain.Expiration = time.Unix(opt.ExpirationDate, 0).UTC()
		chain.Calls = convertContracts(opt.Calls)
		chain.Puts = convertContracts(opt.Puts)
	}

	c.logger.Info().
		Str("symbol", symbol).
		Int("calls", len(chain.Calls)).
		Int("puts", len(chain.Puts)).
		Msg("Yahoo options chain fetched")

	return chain, nil
}

// produce performs exactly one HTTP call and classifies the result.
func (c *Client) produce(reqURL string) fetch.Producer {
	return func(ctx context.Context) fetch.Outcome {
		if err := c.limiter.Wait(ctx); err != nil {
			return fetch.Retryable("rate limit wait", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fetch.Fatal("failed to create request", err)
		}
		req.Header.Set("User-Agent", userAgent)
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

func convertContracts(in []optionContract) []models.OptionContract {
	out := make([]models.OptionContract, len(in))
	for i, oc := range in {
		out[i] = models.OptionContract{
			ContractSymbol: oc.ContractSymbol,
			Strike:         oc.Strike,
			LastPrice:      oc.LastPrice,
			Bid:            oc.Bid,
			Ask:            oc.Ask,
			Volume:         oc.Volume,
			OpenInterest:   oc.OpenInterest,
			ImpliedVol:     oc.ImpliedVolatility,
			InTheMoney:     oc.InTheMoney,
		}
	}
	return out
}

// summarize derives the chart summary from the non-null closes.
func summarize(points []models.ChartPoint) models.ChartSummary {
	summary := models.ChartSummary{Count: len(points)}

	var closes []float64
	for _, p := range points {
		if p.Close != nil {
			closes = append(closes, *p.Close)
		}
	}
	if len(closes) == 0 {
		return summary
	}

	first, last := closes[0], closes[len(closes)-1]
	summary.StartClose = &first
	summary.EndClose = &last
	if len(closes) >= 2 && first != 0 {
		change := (last - first) / first * 100.0
		summary.PctChange = &change
	}
	return summary
}

// at safely indexes a nullable quote array that may be shorter than the
// timestamp array.
func at[T any](arr []*T, i int) *T {
	if i < len(arr) {
		return arr[i]
	}
	return nil
}

// outcomeErr converts a non-success outcome into an error.
func outcomeErr(operation string, out fetch.Outcome) error {
	if out.Err != nil {
		return fmt.Errorf("%s: %w", operation, out.Err)
	}
	return fmt.Errorf("%s: %s", operation, out.Reason)
}

// Ensure Client implements ChartClient
var _ interfaces.ChartClient = (*Client)(nil)
