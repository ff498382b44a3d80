// Package dart provides a client for the Korean DART regulatory filings API
package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const (
	DefaultBaseURL   = "https://opendart.fss.or.kr"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	// ReportCodeAnnual selects the annual business report.
	ReportCodeAnnual = "11011"

	statusOK     = "000"
	statusNoData = "013"
)

// corpCodes maps well-known KOSPI company names to DART corp codes. The full
// registry requires a separate authenticated download; this covers the
// companies the industry screens reference.
var corpCodes = map[string]string{
	"삼성전자":     "00126380",
	"SK하이닉스":   "00164779",
	"현대차":      "00164742",
	"LG에너지솔루션": "00222417",
	"삼성바이오로직스": "00196539",
	"셀트리온":     "00184454",
	"아모레퍼시픽":   "00111903",
	"LG생활건강":   "00173084",
	"네이버":      "00139459",
	"카카오":      "00190321",
	"KB금융":     "00164359",
	"삼성SDI":    "00126912",
	"기아":       "00164529",
}

// Client implements the FilingsClient interface against Open DART.
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

// NewClient creates a new DART client. apiKey may be empty.
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

type listResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		CorpName string `json:"corp_name"`
		CorpCode string `json:"corp_code"`
		ReportNm string `json:"report_nm"`
		RceptNo  string `json:"rcept_no"`
		FlrNm    string `json:"flr_nm"`
		RceptDt  string `json:"rcept_dt"`
	} `json:"list"`
}

// ListFilings retrieves recent filings for a company. A DART status of 013
// (no data in period) is a normal empty result, not an error.
func (c *Client) ListFilings(ctx context.Context, corpCode string, params interfaces.FilingParams) ([]models.Filing, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("DART filings for %s: %w (set DART_API_KEY)", corpCode, fetch.ErrMissingCredential)
	}

	from, to := params.From, params.To
	if to == "" {
		to = time.Now().Format("20060102")
	}
	if from == "" {
		from = time.Now().AddDate(0, -3, 0).Format("20060102")
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	q := url.Values{}
	q.Set("crtfc_key", c.apiKey)
	q.Set("corp_code", corpCode)
	q.Set("bgn_de", from)
	q.Set("end_de", to)
	q.Set("page_count", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/api/list.json?%s", c.baseURL, q.Encode())
	sig := fetch.NewSignature("dart.list", map[string]string{
		"corp_code": corpCode,
		"from":      from,
		"to":        to,
		"limit":     strconv.Itoa(limit),
	})

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("DART filings for %s", corpCode), out)
	}

	var resp listResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode DART list response: %w", err)
	}
	if resp.Status == statusNoData {
		return nil, nil
	}
	if resp.Status != statusOK {
		return nil, fmt.Errorf("DART filings for %s: %s (%s)", corpCode, resp.Message, resp.Status)
	}

	filings := make([]models.Filing, 0, len(resp.List))
	for _, f := range resp.List {
		filings = append(filings, models.Filing{
			CorpName:  f.CorpName,
			CorpCode:  f.CorpCode,
			Title:     f.ReportNm,
			URL:       fmt.Sprintf("https://dart.fss.or.kr/dsaf001/main.do?rcpNo=%s", f.RceptNo),
			ReceiptNo: f.RceptNo,
			FiledDate: f.RceptDt,
			Submitter: f.FlrNm,
		})
	}

	c.logger.Info().
		Str("corp_code", corpCode).
		Int("filings", len(filings)).
		Msg("DART filings fetched")

	return filings, nil
}

// GetFinancialStatement retrieves the consolidated statement accounts for a
// business year.
func (c *Client) GetFinancialStatement(ctx context.Context, corpCode string, year int, reportCode string) (*models.FinancialStatement, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("DART statement for %s: %w (set DART_API_KEY)", corpCode, fetch.ErrMissingCredential)
	}
	if reportCode == "" {
		reportCode = ReportCodeAnnual
	}

	q := url.Values{}
	q.Set("crtfc_key", c.apiKey)
	q.Set("corp_code", corpCode)
	q.Set("bsns_year", strconv.Itoa(year))
	q.Set("reprt_code", reportCode)
	q.Set("fs_div", "CFS")

	reqURL := fmt.Sprintf("%s/api/fnlttSinglAcntAll.json?%s", c.baseURL, q.Encode())
	sig := fetch.NewSignature("dart.statement", map[string]string{
		"corp_code": corpCode,
		"year":      strconv.Itoa(year),
		"report":    reportCode,
	})

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("DART statement for %s", corpCode), out)
	}

	var resp struct {
		Status  string                    `json:"status"`
		Message string                    `json:"message"`
		List    []models.StatementAccount `json:"list"`
	}
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode DART statement response: %w", err)
	}
	if resp.Status != statusOK && resp.Status != statusNoData {
		return nil, fmt.Errorf("DART statement for %s: %s (%s)", corpCode, resp.Message, resp.Status)
	}

	return &models.FinancialStatement{
		Status:   resp.Status,
		Message:  resp.Message,
		Accounts: resp.List,
	}, nil
}

// LookupCorpCode maps a company name to its DART corp code.
func (c *Client) LookupCorpCode(corpName string) (string, bool) {
	code, ok := corpCodes[strings.TrimSpace(corpName)]
	return code, ok
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

func outcomeErr(operation string, out fetch.Outcome) error {
	if out.Err != nil {
		return fmt.Errorf("%s: %w", operation, out.Err)
	}
	return fmt.Errorf("%s: %s", operation, out.Reason)
}

// Ensure Client implements FilingsClient
var _ interfaces.FilingsClient = (*Client)(nil)
