package app

import (
	"context"
	"fmt"

	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

// mockMarketService implements interfaces.MarketService for handler tests.
type mockMarketService struct {
	resolveFn      func(keyword string, class models.AssetClass) []models.SymbolCandidate
	getChartFn     func(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error)
	optionsFn      func(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error)
	fredFn         func(ctx context.Context, seriesIDs []string, opts ...interfaces.SeriesOption) ([]*models.MacroSeries, error)
	ecosFn         func(ctx context.Context, query interfaces.ECOSQuery) (*models.MacroSeries, error)
	filingsFn      func(ctx context.Context, opts interfaces.FilingsOptions) (*models.FilingsResult, error)
	newsFn         func(ctx context.Context, limit int) ([]models.NewsItem, error)
	presetFn       func(ctx context.Context, preset string) (*models.MacroPresetResult, error)
	industryFn     func(ctx context.Context, industry string, year, topN int) (*models.IndustryReport, error)
	listIndustries func() map[string][]string
}

func (m *mockMarketService) ResolveSymbol(keyword string, class models.AssetClass) []models.SymbolCandidate {
	if m.resolveFn != nil {
		return m.resolveFn(keyword, class)
	}
	return nil
}

func (m *mockMarketService) GetChart(ctx context.Context, symbol, chartRange, interval string) (*models.ChartSeries, error) {
	if m.getChartFn != nil {
		return m.getChartFn(ctx, symbol, chartRange, interval)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) GetOptionsChain(ctx context.Context, symbol, expiration string) (*models.OptionsChain, error) {
	if m.optionsFn != nil {
		return m.optionsFn(ctx, symbol, expiration)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) GetFREDSeries(ctx context.Context, seriesIDs []string, opts ...interfaces.SeriesOption) ([]*models.MacroSeries, error) {
	if m.fredFn != nil {
		return m.fredFn(ctx, seriesIDs, opts...)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) GetECOSSeries(ctx context.Context, query interfaces.ECOSQuery) (*models.MacroSeries, error) {
	if m.ecosFn != nil {
		return m.ecosFn(ctx, query)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) GetFilings(ctx context.Context, opts interfaces.FilingsOptions) (*models.FilingsResult, error) {
	if m.filingsFn != nil {
		return m.filingsFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) LatestNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	if m.newsFn != nil {
		return m.newsFn(ctx, limit)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) MacroPreset(ctx context.Context, preset string) (*models.MacroPresetResult, error) {
	if m.presetFn != nil {
		return m.presetFn(ctx, preset)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) IndustryRecommendations(ctx context.Context, industry string, year, topN int) (*models.IndustryReport, error) {
	if m.industryFn != nil {
		return m.industryFn(ctx, industry, year, topN)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMarketService) ListIndustries() map[string][]string {
	if m.listIndustries != nil {
		return m.listIndustries()
	}
	return map[string][]string{}
}

var _ interfaces.MarketService = (*mockMarketService)(nil)
