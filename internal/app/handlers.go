package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("finnews MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleFetchChart implements the fetch_chart tool
func handleFetchChart(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		chartRange := request.GetString("range", "1mo")
		interval := request.GetString("interval", "1d")
		reqID := requestID()

		series, err := svc.GetChart(ctx, symbol, chartRange, interval)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("symbol", symbol).Err(err).Msg("Chart fetch failed")
			return errorResult(fmt.Sprintf("Chart error: %v", err)), nil
		}

		logger.Info().Str("request_id", reqID).Str("symbol", symbol).Int("points", len(series.Points)).Msg("Chart fetched")
		return textResult(formatChart(series)), nil
	}
}

// handleOptionsChain implements the options_chain tool
func handleOptionsChain(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		expiration := request.GetString("expiration", "")
		reqID := requestID()

		chain, err := svc.GetOptionsChain(ctx, symbol, expiration)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("symbol", symbol).Err(err).Msg("Options chain fetch failed")
			return errorResult(fmt.Sprintf("Options error: %v", err)), nil
		}

		return textResult(formatOptionsChain(chain)), nil
	}
}

// handleFREDSeries implements the fred_series tool
func handleFREDSeries(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		seriesIDs := request.GetStringSlice("series_ids", nil)
		if len(seriesIDs) == 0 {
			return errorResult("Error: series_ids parameter is required"), nil
		}

		var opts []interfaces.SeriesOption
		start := request.GetString("start", "")
		end := request.GetString("end", "")
		if start != "" || end != "" {
			opts = append(opts, interfaces.WithObservationRange(start, end))
		}
		if freq := request.GetString("frequency", ""); freq != "" {
			opts = append(opts, interfaces.WithFrequency(freq))
		}
		if agg := request.GetString("aggregation_method", ""); agg != "" {
			opts = append(opts, interfaces.WithAggregationMethod(agg))
		}

		reqID := requestID()
		results, err := svc.GetFREDSeries(ctx, seriesIDs, opts...)
		if err != nil {
			logger.Error().Str("request_id", reqID).Err(err).Msg("FRED series fetch failed")
			return errorResult(fmt.Sprintf("FRED error: %v", err)), nil
		}

		return textResult(formatMacroSeriesList(results)), nil
	}
}

// handleECOSSeries implements the ecos_series tool
func handleECOSSeries(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		statCode, err := request.RequireString("stat_code")
		if err != nil || statCode == "" {
			return errorResult("Error: stat_code parameter is required"), nil
		}
		start, err := request.RequireString("start")
		if err != nil || start == "" {
			return errorResult("Error: start parameter is required"), nil
		}
		end, err := request.RequireString("end")
		if err != nil || end == "" {
			return errorResult("Error: end parameter is required"), nil
		}

		query := interfaces.ECOSQuery{
			StatCode:  statCode,
			Start:     start,
			End:       end,
			Cycle:     request.GetString("cycle", "M"),
			ItemCode1: request.GetString("item_code1", ""),
			ItemCode2: request.GetString("item_code2", ""),
			ItemCode3: request.GetString("item_code3", ""),
		}

		reqID := requestID()
		series, err := svc.GetECOSSeries(ctx, query)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("stat_code", statCode).Err(err).Msg("ECOS series fetch failed")
			return errorResult(fmt.Sprintf("ECOS error: %v", err)), nil
		}

		return textResult(formatMacroSeries(series)), nil
	}
}

// handleDartFilings implements the dart_filings tool
func handleDartFilings(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		corpName := request.GetString("corp_name", "")
		corpCode := request.GetString("corp_code", "")
		if corpName == "" && corpCode == "" {
			return errorResult("Error: corp_name or corp_code parameter is required"), nil
		}

		opts := interfaces.FilingsOptions{
			CorpName: corpName,
			CorpCode: corpCode,
			From:     request.GetString("from", ""),
			To:       request.GetString("to", ""),
			Limit:    request.GetInt("limit", 10),
		}

		reqID := requestID()
		result, err := svc.GetFilings(ctx, opts)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("corp_name", corpName).Err(err).Msg("Filings lookup failed")
			return errorResult(fmt.Sprintf("Filings error: %v", err)), nil
		}

		logger.Info().Str("request_id", reqID).Str("source", result.Source).Msg("Filings lookup answered")
		return textResult(formatFilings(result, corpName)), nil
	}
}

// handleLatestNews implements the latest_news tool
func handleLatestNews(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 10)

		reqID := requestID()
		items, err := svc.LatestNews(ctx, limit)
		if err != nil {
			logger.Error().Str("request_id", reqID).Err(err).Msg("News aggregation failed")
			return errorResult(fmt.Sprintf("News error: %v", err)), nil
		}

		return textResult(formatNews(items)), nil
	}
}

// handleResolveSymbol implements the resolve_symbol tool
func handleResolveSymbol(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := request.RequireString("keyword")
		if err != nil || keyword == "" {
			return errorResult("Error: keyword parameter is required"), nil
		}

		class := models.AssetClass(request.GetString("asset_class", string(models.AssetClassAuto)))

		candidates := svc.ResolveSymbol(keyword, class)
		return textResult(formatCandidates(keyword, candidates)), nil
	}
}

// handleMacroPreset implements the macro_preset tool
func handleMacroPreset(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		preset, err := request.RequireString("preset")
		if err != nil || preset == "" {
			return errorResult("Error: preset parameter is required"), nil
		}

		reqID := requestID()
		started := time.Now()
		result, err := svc.MacroPreset(ctx, preset)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("preset", preset).Err(err).Msg("Macro preset failed")
			return errorResult(fmt.Sprintf("Preset error: %v", err)), nil
		}

		logger.Info().
			Str("request_id", reqID).
			Str("preset", preset).
			Dur("elapsed", time.Since(started)).
			Msg("Macro preset assembled")
		return textResult(formatMacroPreset(result)), nil
	}
}

// handleIndustryRecommendations implements the industry_recommendations tool
func handleIndustryRecommendations(svc interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		industry, err := request.RequireString("industry")
		if err != nil || industry == "" {
			return errorResult("Error: industry parameter is required"), nil
		}

		year := request.GetInt("year", time.Now().Year()-1)
		topN := request.GetInt("top_n", 3)

		reqID := requestID()
		report, err := svc.IndustryRecommendations(ctx, industry, year, topN)
		if err != nil {
			logger.Error().Str("request_id", reqID).Str("industry", industry).Err(err).Msg("Industry screen failed")
			return errorResult(fmt.Sprintf("Industry error: %v", err)), nil
		}

		return textResult(formatIndustryReport(report)), nil
	}
}

// handleListIndustries implements the list_industries tool
func handleListIndustries(svc interfaces.MarketService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatIndustries(svc.ListIndustries())), nil
	}
}

// Helper functions

// requestID tags one tool invocation in the logs.
func requestID() string {
	return uuid.NewString()[:8]
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
