// Package rss provides RSS feed retrieval and Google News search
package rss

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

const (
	DefaultSearchBaseURL = "https://news.google.com"
	DefaultTimeout       = 20 * time.Second
	DefaultRateLimit     = 4 // requests per second
	DefaultLanguage      = "ko"
	DefaultRegion        = "KR"

	userAgent  = "finnews/1.0"
	maxSummary = 280
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Client implements the NewsClient interface over RSS 2.0 feeds.
type Client struct {
	searchBaseURL string
	language      string
	region        string
	httpClient    *http.Client
	fetcher       *fetch.Fetcher
	logger        *common.Logger
	limiter       *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithSearchBaseURL sets the Google News base URL
func WithSearchBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.searchBaseURL = baseURL
	}
}

// WithLocale sets the search language and region
func WithLocale(language, region string) ClientOption {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
		if region != "" {
			c.region = region
		}
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

// NewClient creates a new RSS client.
func NewClient(fetcher *fetch.Fetcher, opts ...ClientOption) *Client {
	c := &Client{
		searchBaseURL: DefaultSearchBaseURL,
		language:      DefaultLanguage,
		region:        DefaultRegion,
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

type rssDocument struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// FetchFeed retrieves and normalizes one configured feed.
func (c *Client) FetchFeed(ctx context.Context, source models.FeedSource) ([]models.NewsItem, error) {
	sig := fetch.NewSignature("rss.feed", map[string]string{"url": source.URL})

	out := c.fetcher.Fetch(ctx, sig, source.URL, c.produce(source.URL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("feed %s", source.Name), out)
	}

	items, err := parseFeed(out.Payload, source.Name)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", source.Name, err)
	}

	c.logger.Debug().
		Str("feed", source.Name).
		Int("items", len(items)).
		Msg("Feed fetched")

	return items, nil
}

// Search queries Google News for articles matching query.
func (c *Client) Search(ctx context.Context, query string) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", c.language)
	params.Set("gl", c.region)
	params.Set("ceid", fmt.Sprintf("%s:%s", c.region, c.language))

	reqURL := fmt.Sprintf("%s/rss/search?%s", c.searchBaseURL, params.Encode())
	sig := fetch.NewSignature("rss.search", map[string]string{
		"q":      query,
		"locale": c.region + ":" + c.language,
	})

	out := c.fetcher.Fetch(ctx, sig, reqURL, c.produce(reqURL))
	if out.Class != fetch.ClassSuccess {
		return nil, outcomeErr(fmt.Sprintf("news search %q", query), out)
	}

	items, err := parseFeed(out.Payload, "Google News")
	if err != nil {
		return nil, fmt.Errorf("news search %q: %w", query, err)
	}
	return items, nil
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
		req.Header.Set("User-Agent", userAgent)

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
			return fetch.Fatal(fmt.Sprintf("status %d", resp.StatusCode), nil)
		}
	}
}

func parseFeed(payload []byte, sourceName string) ([]models.NewsItem, error) {
	var doc rssDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed XML: %w", err)
	}

	items := make([]models.NewsItem, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Source:      sourceName,
			Title:       title,
			Link:        link,
			PublishedAt: parsePubDate(item.PubDate),
			Summary:     cleanSummary(item.Description),
		})
	}
	return items, nil
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z07:00",
}

// parsePubDate tries the date layouts seen across real feeds. An unparseable
// date yields the zero time so the item still surfaces, sorted last.
func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// cleanSummary strips markup from a feed description and truncates it.
// Truncation lands on a rune boundary so Hangul-heavy summaries never carry
// a split multi-byte sequence into the output.
func cleanSummary(raw string) string {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSummary {
		cut := s[:maxSummary]
		for len(cut) > 0 && !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
		s = cut + "..."
	}
	return s
}

func outcomeErr(operation string, out fetch.Outcome) error {
	if out.Err != nil {
		return fmt.Errorf("%s: %w", operation, out.Err)
	}
	return fmt.Errorf("%s: %s", operation, out.Reason)
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
