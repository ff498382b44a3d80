// Package interfaces defines client and service contracts for finnews
package interfaces

import (
	"context"

	"github.com/finnews-io/finnews/internal/models"
)

// ChartClient provides normalized price charts and options chains.
type ChartClient interface {
	// GetChart retrieves a historical price chart for a symbol.
	GetChart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error)

	// GetOptionsChain retrieves the options chain for a symbol. expiration
	// is optional (YYYY-MM-DD); empty selects the nearest expiration.
	GetOptionsChain(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error)
}

// SeriesOption configures macro series requests
type SeriesOption func(*SeriesParams)

// SeriesParams holds macro series query parameters
type SeriesParams struct {
	Start             string // YYYY-MM-DD
	End               string // YYYY-MM-DD
	Frequency         string // e.g. m, q
	AggregationMethod string // e.g. avg, sum
}

// WithObservationRange sets the observation window
func WithObservationRange(start, end string) SeriesOption {
	return func(p *SeriesParams) {
		p.Start = start
		p.End = end
	}
}

// WithFrequency sets the resampling frequency
func WithFrequency(frequency string) SeriesOption {
	return func(p *SeriesParams) {
		p.Frequency = frequency
	}
}

// WithAggregationMethod sets the frequency aggregation method
func WithAggregationMethod(method string) SeriesOption {
	return func(p *SeriesParams) {
		p.AggregationMethod = method
	}
}

// FREDClient provides access to the FRED (U.S. macro) API
type FREDClient interface {
	// GetSeries retrieves observations for one series
	GetSeries(ctx context.Context, seriesID string, opts ...SeriesOption) (*models.MacroSeries, error)
}

// ECOSQuery identifies one Bank of Korea statistics request.
type ECOSQuery struct {
	StatCode  string
	Start     string // cycle-dependent format: YYYY, YYYYMM, ...
	End       string
	Cycle     string // D/M/Q/Y
	ItemCode1 string
	ItemCode2 string
	ItemCode3 string
}

// ECOSClient provides access to the ECOS (Bank of Korea) API
type ECOSClient interface {
	// GetSeries retrieves observations for one statistic
	GetSeries(ctx context.Context, query ECOSQuery) (*models.MacroSeries, error)
}

// FilingParams holds filing list query parameters
type FilingParams struct {
	From  string // YYYYMMDD
	To    string // YYYYMMDD
	Limit int
}

// FilingsClient provides access to the DART regulatory filings API
type FilingsClient interface {
	// ListFilings retrieves recent filings for a company
	ListFilings(ctx context.Context, corpCode string, params FilingParams) ([]models.Filing, error)

	// GetFinancialStatement retrieves the consolidated financial statement
	// accounts for a business year
	GetFinancialStatement(ctx context.Context, corpCode string, year int, reportCode string) (*models.FinancialStatement, error)

	// LookupCorpCode maps a company name to its DART corp code
	LookupCorpCode(corpName string) (string, bool)
}

// NewsClient provides RSS feed retrieval and news search.
type NewsClient interface {
	// FetchFeed retrieves and normalizes one configured feed
	FetchFeed(ctx context.Context, source models.FeedSource) ([]models.NewsItem, error)

	// Search queries Google News for articles matching query
	Search(ctx context.Context, query string) ([]models.NewsItem, error)
}
