// Package market implements the tool-facing gateway service over the
// provider clients.
package market

import (
	"context"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
	"github.com/finnews-io/finnews/internal/resolve"
)

// industries maps each screenable industry to its KOSPI constituents. Only
// companies with a known DART corp code participate in a screen.
var industries = map[string][]string{
	"반도체": {"삼성전자", "SK하이닉스", "DB하이텍", "SK스퀘어"},
	"화장품": {"아모레퍼시픽", "LG생활건강", "코스맥스", "한국콜마"},
	"자동차": {"현대차", "기아", "현대모비스", "삼성SDI"},
	"배터리": {"LG에너지솔루션", "삼성SDI", "SK이노베이션", "에코프로비엠"},
	"바이오": {"삼성바이오로직스", "셀트리온", "SK바이오팜", "유한양행"},
	"금융":  {"KB금융", "신한지주", "하나금융지주", "우리금융지주"},
	"화학":  {"LG화학", "롯데케미칼", "한화솔루션", "SK케미칼"},
	"제약":  {"셀트리온", "삼성바이오로직스", "녹십자", "한미약품"},
	"건설":  {"삼성물산", "현대건설", "GS건설", "대림산업"},
	"유통":  {"신세계", "롯데쇼핑", "현대백화점", "이마트"},
}

// Service wires the resolver, provider clients and feed list behind the
// MarketService contract.
type Service struct {
	charts   interfaces.ChartClient
	fred     interfaces.FREDClient
	ecos     interfaces.ECOSClient
	filings  interfaces.FilingsClient
	news     interfaces.NewsClient
	resolver *resolve.Resolver
	feeds    []models.FeedSource
	logger   *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFeeds sets the configured news feed list
func WithFeeds(feeds []models.FeedSource) ServiceOption {
	return func(s *Service) {
		s.feeds = feeds
	}
}

// NewService creates the market service.
func NewService(
	charts interfaces.ChartClient,
	fred interfaces.FREDClient,
	ecos interfaces.ECOSClient,
	filings interfaces.FilingsClient,
	news interfaces.NewsClient,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		charts:   charts,
		fred:     fred,
		ecos:     ecos,
		filings:  filings,
		news:     news,
		resolver: resolve.NewResolver(),
		logger:   common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ResolveSymbol maps a free-text keyword to ranked symbol candidates.
func (s *Service) ResolveSymbol(keyword string, class models.AssetClass) []models.SymbolCandidate {
	return s.resolver.Resolve(keyword, class)
}

// GetChart retrieves a normalized price chart.
func (s *Service) GetChart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error) {
	return s.charts.GetChart(ctx, symbol, chartRange, interval)
}

// GetOptionsChain retrieves a normalized options chain.
func (s *Service) GetOptionsChain(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error) {
	return s.charts.GetOptionsChain(ctx, symbol, expiration)
}

// ListIndustries returns the industries available for recommendations.
func (s *Service) ListIndustries() map[string][]string {
	out := make(map[string][]string, len(industries))
	for industry, names := range industries {
		out[industry] = append([]string(nil), names...)
	}
	return out
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
