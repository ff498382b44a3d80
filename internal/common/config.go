// Package common provides shared utilities for finnews
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for finnews
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Security    SecurityConfig `toml:"security"`
	Cache       CacheConfig    `toml:"cache"`
	Fetch       FetchConfig    `toml:"fetch"`
	Clients     ClientsConfig  `toml:"clients"`
	News        NewsConfig     `toml:"news"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SecurityConfig holds the outbound request policy. Strict mode requires
// every target host to be on the allow-list.
type SecurityConfig struct {
	Strict       bool     `toml:"strict"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// CacheConfig holds the fetch cache configuration.
type CacheConfig struct {
	TTL        string `toml:"ttl"`
	MaxEntries int    `toml:"max_entries"`
}

// GetTTL parses and returns the default cache TTL
func (c *CacheConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 180 * time.Second
	}
	return d
}

// FetchConfig holds retry and timeout settings for upstream calls.
type FetchConfig struct {
	MaxAttempts    int    `toml:"max_attempts"`
	Timeout        string `toml:"timeout"`
	InitialBackoff string `toml:"initial_backoff"`
}

// GetTimeout parses and returns the per-attempt timeout
func (c *FetchConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetInitialBackoff parses and returns the first retry delay
func (c *FetchConfig) GetInitialBackoff() time.Duration {
	d, err := time.ParseDuration(c.InitialBackoff)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo ClientConfig `toml:"yahoo"`
	FRED  ClientConfig `toml:"fred"`
	ECOS  ClientConfig `toml:"ecos"`
	DART  ClientConfig `toml:"dart"`
}

// ClientConfig holds the per-provider settings shared by all adapters.
type ClientConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	TTL       string `toml:"ttl"`
}

// GetTimeout parses and returns the timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetTTL parses the per-provider cache TTL, falling back to def.
func (c *ClientConfig) GetTTL(def time.Duration) time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return def
	}
	return d
}

// NewsConfig holds the RSS feed aggregation settings.
type NewsConfig struct {
	FeedsPath string `toml:"feeds_path"`
	Language  string `toml:"language"`
	Region    string `toml:"region"`
	TTL       string `toml:"ttl"`
}

// GetTTL parses the news cache TTL, falling back to def.
func (c *NewsConfig) GetTTL(def time.Duration) time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return def
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 4270,
		},
		Security: SecurityConfig{
			Strict: true,
			AllowedHosts: []string{
				"query1.finance.yahoo.com",
				"query2.finance.yahoo.com",
				"api.stlouisfed.org",
				"ecos.bok.or.kr",
				"opendart.fss.or.kr",
				"news.google.com",
			},
		},
		Cache: CacheConfig{
			TTL:        "180s",
			MaxEntries: 2048,
		},
		Fetch: FetchConfig{
			MaxAttempts:    3,
			Timeout:        "30s",
			InitialBackoff: "500ms",
		},
		Clients: ClientsConfig{
			Yahoo: ClientConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			FRED: ClientConfig{
				BaseURL:   "https://api.stlouisfed.org",
				RateLimit: 5,
				Timeout:   "30s",
				TTL:       "300s",
			},
			ECOS: ClientConfig{
				BaseURL:   "https://ecos.bok.or.kr",
				RateLimit: 5,
				Timeout:   "30s",
				TTL:       "300s",
			},
			DART: ClientConfig{
				BaseURL:   "https://opendart.fss.or.kr",
				RateLimit: 5,
				Timeout:   "30s",
				TTL:       "600s",
			},
		},
		News: NewsConfig{
			FeedsPath: "config/feeds.yaml",
			Language:  "ko",
			Region:    "KR",
			TTL:       "120s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINNEWS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINNEWS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINNEWS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINNEWS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if strict := os.Getenv("FINNEWS_STRICT"); strict != "" {
		config.Security.Strict = strict != "false" && strict != "0"
	}

	if path := os.Getenv("FINNEWS_FEEDS"); path != "" {
		config.News.FeedsPath = path
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves a provider API key from environment variables first,
// then the config fallback. An empty result is not an error here; adapters
// report missing credentials themselves so the fallback layer can act on it.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"fred_api_key": {"FRED_API_KEY", "FINNEWS_FRED_API_KEY"},
		"ecos_api_key": {"BOK_API_KEY", "FINNEWS_ECOS_API_KEY"},
		"dart_api_key": {"DART_API_KEY", "FINNEWS_DART_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue
			}
		}
	}

	return fallback
}
