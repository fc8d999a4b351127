package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/leonardcser/catalog-mcp/internal/logger"
)

// Config holds everything the server reads from the environment.
type Config struct {
	CatalogBase       string
	CatalogToken      string
	ResolverURL       string
	ResolverToken     string
	TMDBKey           string
	TMDBBase          string
	TMDBImageBase     string
	TMDBImageBaseHQ   string
	TMDBLanguage      string
	PlayerBase        string
	SettingsDB        string
	CacheSize         int
	CacheTTL          time.Duration
	CleanupEvery      time.Duration
	PlayerCacheTTL    time.Duration
	PlayerRequestWait time.Duration
}

// FromEnv loads the configuration, falling back to defaults for unset or
// malformed values.
func FromEnv() Config {
	return Config{
		CatalogBase:       defaultString(os.Getenv("CATALOG_API_BASE"), "https://api.apbugall.org"),
		CatalogToken:      os.Getenv("CATALOG_API_TOKEN"),
		ResolverURL:       defaultString(os.Getenv("CATALOG_ID_RESOLVER_URL"), "https://api.apbugall.org/"),
		ResolverToken:     os.Getenv("CATALOG_ID_RESOLVER_TOKEN"),
		TMDBKey:           os.Getenv("TMDB_API_KEY"),
		TMDBBase:          defaultString(os.Getenv("TMDB_BASE_URL"), "https://api.themoviedb.org/3"),
		TMDBImageBase:     defaultString(os.Getenv("TMDB_IMAGE_BASE"), "https://image.tmdb.org/t/p/w500"),
		TMDBImageBaseHQ:   defaultString(os.Getenv("TMDB_IMAGE_BASE_HQ"), "https://image.tmdb.org/t/p/original"),
		TMDBLanguage:      defaultString(os.Getenv("TMDB_LANGUAGE"), "ru-RU"),
		PlayerBase:        defaultString(os.Getenv("CATALOG_PLAYER_BASE"), "https://p.lumex.cloud/Agk530pFHbAV"),
		SettingsDB:        defaultString(os.Getenv("CATALOG_MCP_SETTINGS_DB"), defaultSettingsPath()),
		CacheSize:         envInt("CATALOG_MCP_CACHE_SIZE", 100),
		CacheTTL:          envDuration("CATALOG_MCP_CACHE_TTL", 5*time.Minute),
		CleanupEvery:      envDuration("CATALOG_MCP_CLEANUP_EVERY", time.Minute),
		PlayerCacheTTL:    envDuration("CATALOG_MCP_PLAYER_TTL", 15*time.Minute),
		PlayerRequestWait: envDuration("CATALOG_MCP_PLAYER_DELAY", time.Second),
	}
}

func defaultSettingsPath() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "catalog-mcp", "settings.bbolt")
}

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func envInt(name string, d int) int {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Warnf("ignoring %s=%q: want a positive integer, using %d", name, v, d)
		return d
	}
	return n
}

func envDuration(name string, d time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil || dur <= 0 {
		logger.Warnf("ignoring %s=%q: want a positive duration, using %s", name, v, d)
		return d
	}
	return dur
}
