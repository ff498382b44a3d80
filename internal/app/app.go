// Package app wires configuration, the outbound policy guard, the shared
// fetch cache, provider clients and the MCP server into one unit shared by
// cmd/finnews-server and cmd/finnews-mcp.
package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/finnews-io/finnews/internal/clients/dart"
	"github.com/finnews-io/finnews/internal/clients/ecos"
	"github.com/finnews-io/finnews/internal/clients/fred"
	"github.com/finnews-io/finnews/internal/clients/rss"
	"github.com/finnews-io/finnews/internal/clients/yahoo"
	"github.com/finnews-io/finnews/internal/common"
	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
	"github.com/finnews-io/finnews/internal/models"
	"github.com/finnews-io/finnews/internal/policy"
	"github.com/finnews-io/finnews/internal/services/market"
)

// App holds the initialized gateway: config, guard, cache, clients, the
// market service and the MCP server.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Guard         *policy.Guard
	Cache         *fetch.Cache
	MarketService interfaces.MarketService
	MCPServer     *server.MCPServer
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the gateway. configPath may be empty, in which case
// FINNEWS_CONFIG, the binary directory, then config/finnews.toml are tried.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FINNEWS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finnews.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finnews.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level, config.Logging.Format)

	feeds, err := common.LoadFeeds(config.News.FeedsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", config.News.FeedsPath).Msg("Failed to load feed list - news aggregation will be empty")
	}

	// Configured feed hosts join the allow-list; everything else stays
	// subject to strict mode.
	allowedHosts := append([]string(nil), config.Security.AllowedHosts...)
	allowedHosts = append(allowedHosts, feedHosts(feeds)...)
	guard := policy.NewGuard(config.Security.Strict, allowedHosts)

	cache := fetch.NewCache(config.Cache.MaxEntries)
	defaultTTL := config.Cache.GetTTL()

	newFetcher := func(ttl time.Duration) *fetch.Fetcher {
		return fetch.NewFetcher(cache, guard,
			fetch.WithTTL(ttl),
			fetch.WithMaxAttempts(config.Fetch.MaxAttempts),
			fetch.WithBackoff(fetch.ExponentialBackoff(config.Fetch.GetInitialBackoff())),
			fetch.WithLogger(logger),
		)
	}

	yahooClient := yahoo.NewClient(newFetcher(config.Clients.Yahoo.GetTTL(defaultTTL)),
		yahoo.WithChartBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	fredKey := common.ResolveAPIKey("fred_api_key", config.Clients.FRED.APIKey)
	if fredKey == "" {
		logger.Warn().Msg("FRED API key not configured - US macro series will be unavailable")
	}
	fredClient := fred.NewClient(newFetcher(config.Clients.FRED.GetTTL(defaultTTL)), fredKey,
		fred.WithBaseURL(config.Clients.FRED.BaseURL),
		fred.WithLogger(logger),
		fred.WithRateLimit(config.Clients.FRED.RateLimit),
		fred.WithTimeout(config.Clients.FRED.GetTimeout()),
	)

	ecosKey := common.ResolveAPIKey("ecos_api_key", config.Clients.ECOS.APIKey)
	if ecosKey == "" {
		logger.Warn().Msg("ECOS API key not configured - Korean macro series will be unavailable")
	}
	ecosClient := ecos.NewClient(newFetcher(config.Clients.ECOS.GetTTL(defaultTTL)), ecosKey,
		ecos.WithBaseURL(config.Clients.ECOS.BaseURL),
		ecos.WithLogger(logger),
		ecos.WithRateLimit(config.Clients.ECOS.RateLimit),
		ecos.WithTimeout(config.Clients.ECOS.GetTimeout()),
	)

	dartKey := common.ResolveAPIKey("dart_api_key", config.Clients.DART.APIKey)
	if dartKey == "" {
		logger.Warn().Msg("DART API key not configured - filings will degrade to news search")
	}
	dartClient := dart.NewClient(newFetcher(config.Clients.DART.GetTTL(defaultTTL)), dartKey,
		dart.WithBaseURL(config.Clients.DART.BaseURL),
		dart.WithLogger(logger),
		dart.WithRateLimit(config.Clients.DART.RateLimit),
		dart.WithTimeout(config.Clients.DART.GetTimeout()),
	)

	rssClient := rss.NewClient(newFetcher(config.News.GetTTL(defaultTTL)),
		rss.WithLocale(config.News.Language, config.News.Region),
		rss.WithLogger(logger),
	)

	marketService := market.NewService(yahooClient, fredClient, ecosClient, dartClient, rssClient,
		market.WithLogger(logger),
		market.WithFeeds(feeds),
	)

	mcpServer := server.NewMCPServer(
		"finnews",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Guard:         guard,
		Cache:         cache,
		MarketService: marketService,
		MCPServer:     mcpServer,
		StartupTime:   startupStart,
	}

	a.registerTools()

	logger.Info().
		Int("feeds", len(feeds)).
		Bool("strict", guard.Strict()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// feedHosts extracts the hostnames of the configured feeds.
func feedHosts(feeds []models.FeedSource) []string {
	var hosts []string
	for _, feed := range feeds {
		u, err := url.Parse(feed.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		hosts = append(hosts, u.Hostname())
	}
	return hosts
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	svc := a.MarketService
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createFetchChartTool(), handleFetchChart(svc, logger))
	s.AddTool(createOptionsChainTool(), handleOptionsChain(svc, logger))
	s.AddTool(createFREDSeriesTool(), handleFREDSeries(svc, logger))
	s.AddTool(createECOSSeriesTool(), handleECOSSeries(svc, logger))
	s.AddTool(createDartFilingsTool(), handleDartFilings(svc, logger))
	s.AddTool(createLatestNewsTool(), handleLatestNews(svc, logger))
	s.AddTool(createResolveSymbolTool(), handleResolveSymbol(svc, logger))
	s.AddTool(createMacroPresetTool(), handleMacroPreset(svc, logger))
	s.AddTool(createIndustryRecommendationsTool(), handleIndustryRecommendations(svc, logger))
	s.AddTool(createListIndustriesTool(), handleListIndustries(svc))
}
