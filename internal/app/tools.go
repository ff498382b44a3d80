package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the finnews MCP server version and status. Use this to verify connectivity."),
	)
}

// createFetchChartTool returns the fetch_chart tool definition
func createFetchChartTool() mcp.Tool {
	return mcp.NewTool("fetch_chart",
		mcp.WithDescription("Fetch a historical price chart for a symbol (equities, indices, FX, commodities). Returns OHLCV points and a summary."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Yahoo Finance symbol (e.g., 'AAPL', '^GSPC', 'KRW=X', 'GC=F', '005930.KS')"),
		),
		mcp.WithString("range",
			mcp.Description("Chart range: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, max (default: 1mo)"),
		),
		mcp.WithString("interval",
			mcp.Description("Bar interval: 1m, 5m, 15m, 1h, 1d, 1wk, 1mo (default: 1d)"),
		),
	)
}

// createOptionsChainTool returns the options_chain tool definition
func createOptionsChainTool() mcp.Tool {
	return mcp.NewTool("options_chain",
		mcp.WithDescription("Fetch the options chain (calls and puts) for a symbol, with available expiration dates."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Underlying symbol (e.g., 'AAPL', 'TSLA')"),
		),
		mcp.WithString("expiration",
			mcp.Description("Expiration date YYYY-MM-DD (default: nearest expiration)"),
		),
	)
}

// createFREDSeriesTool returns the fred_series tool definition
func createFREDSeriesTool() mcp.Tool {
	return mcp.NewTool("fred_series",
		mcp.WithDescription("Fetch US macroeconomic series from FRED (e.g., FEDFUNDS, DGS10, CPIAUCSL, UNRATE, GDP). Requires FRED_API_KEY."),
		mcp.WithArray("series_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("FRED series ids (e.g., ['DGS10', 'UNRATE'])"),
		),
		mcp.WithString("start",
			mcp.Description("Observation start date YYYY-MM-DD"),
		),
		mcp.WithString("end",
			mcp.Description("Observation end date YYYY-MM-DD"),
		),
		mcp.WithString("frequency",
			mcp.Description("Resampling frequency: d, w, m, q, a"),
		),
		mcp.WithString("aggregation_method",
			mcp.Description("Aggregation for resampling: avg, sum, eop"),
		),
	)
}

// createECOSSeriesTool returns the ecos_series tool definition
func createECOSSeriesTool() mcp.Tool {
	return mcp.NewTool("ecos_series",
		mcp.WithDescription("Fetch Korean macroeconomic statistics from the Bank of Korea ECOS API (e.g., 722Y001 base rate). Requires BOK_API_KEY."),
		mcp.WithString("stat_code",
			mcp.Required(),
			mcp.Description("ECOS statistic code (e.g., '722Y001')"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start period in cycle format (YYYY, YYYYMM, YYYYMMDD)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End period in cycle format"),
		),
		mcp.WithString("cycle",
			mcp.Description("Cycle: D, M, Q, Y (default: M)"),
		),
		mcp.WithString("item_code1",
			mcp.Description("First item code filter"),
		),
		mcp.WithString("item_code2",
			mcp.Description("Second item code filter"),
		),
		mcp.WithString("item_code3",
			mcp.Description("Third item code filter"),
		),
	)
}

// createDartFilingsTool returns the dart_filings tool definition
func createDartFilingsTool() mcp.Tool {
	return mcp.NewTool("dart_filings",
		mcp.WithDescription("Fetch recent Korean regulatory filings from DART for a company. Falls back to a news search when the DART API is unavailable."),
		mcp.WithString("corp_name",
			mcp.Description("Company name in Korean (e.g., '삼성전자')"),
		),
		mcp.WithString("corp_code",
			mcp.Description("DART corp code (8 digits); overrides corp_name lookup"),
		),
		mcp.WithString("from",
			mcp.Description("Start date YYYYMMDD (default: 3 months ago)"),
		),
		mcp.WithString("to",
			mcp.Description("End date YYYYMMDD (default: today)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum filings to return (default: 10, max: 100)"),
		),
	)
}

// createLatestNewsTool returns the latest_news tool definition
func createLatestNewsTool() mcp.Tool {
	return mcp.NewTool("latest_news",
		mcp.WithDescription("Aggregate the latest financial news from all configured RSS feeds, deduplicated and sorted newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum articles to return (default: 10)"),
		),
	)
}

// createResolveSymbolTool returns the resolve_symbol tool definition
func createResolveSymbolTool() mcp.Tool {
	return mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Resolve a free-text keyword (English or Korean, e.g., 'coffee', '커피', 'kospi') to ranked market symbols."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Keyword to resolve (e.g., 'gold', '원유', 's&p500', '삼성전자')"),
		),
		mcp.WithString("asset_class",
			mcp.Description("Restrict to one class: commodity, fx, index, equity (default: all)"),
		),
	)
}

// createMacroPresetTool returns the macro_preset tool definition
func createMacroPresetTool() mcp.Tool {
	return mcp.NewTool("macro_preset",
		mcp.WithDescription("Run a composite macro snapshot across providers. Partial results are returned with per-source status when a provider is unavailable."),
		mcp.WithString("preset",
			mcp.Required(),
			mcp.Description("Preset name: us (FRED rates/inflation + US indices), kr (ECOS + KOSPI/KRW), global (indices, gold, oil, FX)"),
		),
	)
}

// createIndustryRecommendationsTool returns the industry_recommendations tool definition
func createIndustryRecommendationsTool() mcp.Tool {
	return mcp.NewTool("industry_recommendations",
		mcp.WithDescription("Rank a Korean industry's companies by financial health (ROE, debt ratio, current ratio) derived from DART statements."),
		mcp.WithString("industry",
			mcp.Required(),
			mcp.Description("Industry in Korean (e.g., '반도체', '화장품', '자동차', '배터리', '바이오', '금융')"),
		),
		mcp.WithNumber("year",
			mcp.Description("Business year for statements (default: previous year)"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of top picks to recommend (default: 3)"),
		),
	)
}

// createListIndustriesTool returns the list_industries tool definition
func createListIndustriesTool() mcp.Tool {
	return mcp.NewTool("list_industries",
		mcp.WithDescription("List the industries available for industry_recommendations, with their constituent companies."),
	)
}
