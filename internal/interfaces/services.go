package interfaces

import (
	"context"

	"github.com/finnews-io/finnews/internal/models"
)

// FilingsOptions identifies a filings lookup. CorpCode drives the DART API
// path; CorpName alone resolves through the corp-code table and, failing
// that, the news fallback.
type FilingsOptions struct {
	CorpName string
	CorpCode string
	From     string // YYYYMMDD
	To       string // YYYYMMDD
	Limit    int
}

// MarketService is the tool-facing surface of the gateway.
type MarketService interface {
	// ResolveSymbol maps a free-text keyword to ranked symbol candidates.
	// An empty result means no match, not an error.
	ResolveSymbol(keyword string, class models.AssetClass) []models.SymbolCandidate

	// GetChart retrieves a normalized price chart
	GetChart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error)

	// GetOptionsChain retrieves a normalized options chain
	GetOptionsChain(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error)

	// GetFREDSeries retrieves multiple FRED series concurrently; per-series
	// failures are annotated on the series, not fatal to the batch
	GetFREDSeries(ctx context.Context, seriesIDs []string, opts ...SeriesOption) ([]*models.MacroSeries, error)

	// GetECOSSeries retrieves one ECOS statistic
	GetECOSSeries(ctx context.Context, query ECOSQuery) (*models.MacroSeries, error)

	// GetFilings retrieves filings with news-search fallback, recording
	// which source answered
	GetFilings(ctx context.Context, opts FilingsOptions) (*models.FilingsResult, error)

	// LatestNews aggregates all configured feeds, deduplicated and sorted
	// newest first
	LatestNews(ctx context.Context, limit int) ([]models.NewsItem, error)

	// MacroPreset runs a composite preset ("us", "kr", "global") across
	// providers; partial results carry per-source status
	MacroPreset(ctx context.Context, preset string) (*models.MacroPresetResult, error)

	// IndustryRecommendations ranks an industry's companies by financial health
	IndustryRecommendations(ctx context.Context, industry string, year, topN int) (*models.IndustryReport, error)

	// ListIndustries returns the industries available for recommendations
	ListIndustries() map[string][]string
}
