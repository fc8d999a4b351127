package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"CATALOG_API_BASE", "CATALOG_MCP_CACHE_SIZE", "CATALOG_MCP_CACHE_TTL", "TMDB_LANGUAGE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.CatalogBase != "https://api.apbugall.org" {
		t.Errorf("CatalogBase=%q", cfg.CatalogBase)
	}
	if cfg.CacheSize != 100 {
		t.Errorf("CacheSize=%d", cfg.CacheSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL=%s", cfg.CacheTTL)
	}
	if cfg.TMDBLanguage != "ru-RU" {
		t.Errorf("TMDBLanguage=%q", cfg.TMDBLanguage)
	}
	if cfg.SettingsDB == "" {
		t.Errorf("SettingsDB is empty")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_API_BASE", "http://localhost:9000")
	t.Setenv("CATALOG_MCP_CACHE_SIZE", "7")
	t.Setenv("CATALOG_MCP_CACHE_TTL", "30s")
	cfg := FromEnv()
	if cfg.CatalogBase != "http://localhost:9000" || cfg.CacheSize != 7 || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestFromEnvRejectsMalformedNumbers(t *testing.T) {
	tests := []struct {
		size, ttl string
	}{
		{"abc", "soon"},
		{"0", "0s"},
		{"-3", "-1m"},
	}
	for _, tt := range tests {
		t.Setenv("CATALOG_MCP_CACHE_SIZE", tt.size)
		t.Setenv("CATALOG_MCP_CACHE_TTL", tt.ttl)
		cfg := FromEnv()
		if cfg.CacheSize != 100 || cfg.CacheTTL != 5*time.Minute {
			t.Errorf("size=%q ttl=%q: got %d %s", tt.size, tt.ttl, cfg.CacheSize, cfg.CacheTTL)
		}
	}
}
