package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 4270 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 4270)
	}
}

func TestConfig_DefaultAllowedHosts(t *testing.T) {
	cfg := NewDefaultConfig()
	want := map[string]bool{
		"query1.finance.yahoo.com": true,
		"query2.finance.yahoo.com": true,
		"api.stlouisfed.org":       true,
		"ecos.bok.or.kr":           true,
		"opendart.fss.or.kr":       true,
		"news.google.com":          true,
	}
	if len(cfg.Security.AllowedHosts) != len(want) {
		t.Fatalf("AllowedHosts = %v, want %d entries", cfg.Security.AllowedHosts, len(want))
	}
	for _, host := range cfg.Security.AllowedHosts {
		if !want[host] {
			t.Errorf("unexpected allowed host %q", host)
		}
	}
	if !cfg.Security.Strict {
		t.Error("Security.Strict should default to true")
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FINNEWS_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_StrictEnvOverride(t *testing.T) {
	t.Setenv("FINNEWS_STRICT", "false")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Security.Strict {
		t.Error("Security.Strict should be false after FINNEWS_STRICT=false")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finnews.toml")
	content := `
environment = "production"

[server]
port = 5000

[cache]
ttl = "60s"
max_entries = 512

[clients.fred]
api_key = "file-key"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, default should survive partial file", cfg.Server.Host)
	}
	if got := cfg.Cache.GetTTL(); got != 60*time.Second {
		t.Errorf("Cache TTL = %v, want 60s", got)
	}
	if cfg.Cache.MaxEntries != 512 {
		t.Errorf("Cache.MaxEntries = %d, want 512", cfg.Cache.MaxEntries)
	}
	if cfg.Clients.FRED.APIKey != "file-key" {
		t.Errorf("FRED APIKey = %q, want file-key", cfg.Clients.FRED.APIKey)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() should be true for environment=production")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 4270 {
		t.Errorf("Server.Port = %d, want default 4270", cfg.Server.Port)
	}
}

func TestCacheConfig_GetTTL_Invalid(t *testing.T) {
	c := CacheConfig{TTL: "not-a-duration"}
	if got := c.GetTTL(); got != 180*time.Second {
		t.Errorf("GetTTL() = %v for invalid input, want 180s", got)
	}
}

func TestClientConfig_GetTTL_Fallback(t *testing.T) {
	c := ClientConfig{}
	if got := c.GetTTL(42 * time.Second); got != 42*time.Second {
		t.Errorf("GetTTL() = %v for empty TTL, want fallback 42s", got)
	}

	c.TTL = "90s"
	if got := c.GetTTL(42 * time.Second); got != 90*time.Second {
		t.Errorf("GetTTL() = %v, want 90s", got)
	}
}

func TestResolveAPIKey_EnvFirst(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")

	if got := ResolveAPIKey("fred_api_key", "from-config"); got != "from-env" {
		t.Errorf("ResolveAPIKey = %q, want from-env", got)
	}
}

func TestResolveAPIKey_ConfigFallback(t *testing.T) {
	t.Setenv("BOK_API_KEY", "")
	t.Setenv("FINNEWS_ECOS_API_KEY", "")

	if got := ResolveAPIKey("ecos_api_key", "from-config"); got != "from-config" {
		t.Errorf("ResolveAPIKey = %q, want from-config", got)
	}
}

func TestResolveAPIKey_UnknownName(t *testing.T) {
	if got := ResolveAPIKey("unknown_key", "fallback"); got != "fallback" {
		t.Errorf("ResolveAPIKey = %q, want fallback", got)
	}
}
