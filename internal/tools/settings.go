package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/logger"
	"github.com/leonardcser/catalog-mcp/internal/settings"
)

// Clearer is anything that can drop all of its memoized state.
type Clearer interface {
	Clear()
}

// StatsSource reports cache counters.
type StatsSource interface {
	Stats() cache.Stats
}

// SettingsGetHandler returns the handler for the "settings-get" tool.
func SettingsGetHandler(prefs Preferences) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := prefs.Get()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatSettings(s)), nil
	}
}

// SettingsSetHandler returns the handler for the "settings-set" tool.
// Changing blockAds drops the player cache, since probed pages were
// fetched under the previous policy.
func SettingsSetHandler(prefs Preferences, players Clearer) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		enabled, err := req.RequireBool("enabled")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := prefs.Set(name, enabled); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		logger.Infof("setting %s=%t", name, enabled)
		if name == settings.BlockAds && players != nil {
			players.Clear()
		}
		s, err := prefs.Get()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatSettings(s)), nil
	}
}

// CacheClearHandler returns the handler for the "cache-clear" tool.
func CacheClearHandler(caches ...Clearer) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for _, c := range caches {
			c.Clear()
		}
		logger.Infof("caches cleared on request")
		return mcp.NewToolResultText("Cache cleared."), nil
	}
}

// CacheStatsHandler returns the handler for the "cache-stats" tool.
func CacheStatsHandler(sources map[string]StatsSource) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := make(map[string]cache.Stats, len(sources))
		for name, src := range sources {
			out[name] = src.Stats()
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func formatSettings(s settings.Settings) string {
	vals := map[string]bool{
		settings.BlockAds:            s.BlockAds,
		settings.AutoStart:           s.AutoStart,
		settings.HighQualityPosters:  s.HighQualityPosters,
		settings.UseTmdbDescriptions: s.UseTmdbDescriptions,
	}
	var sb strings.Builder
	for i, n := range settings.Names() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %t", n, vals[n]))
	}
	return sb.String()
}
