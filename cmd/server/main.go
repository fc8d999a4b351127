package main

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/catalog"
	"github.com/leonardcser/catalog-mcp/internal/config"
	"github.com/leonardcser/catalog-mcp/internal/logger"
	"github.com/leonardcser/catalog-mcp/internal/metadata"
	"github.com/leonardcser/catalog-mcp/internal/player"
	"github.com/leonardcser/catalog-mcp/internal/settings"
	"github.com/leonardcser/catalog-mcp/internal/tools"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting Catalog MCP server")
	cfg := config.FromEnv()

	prefs, err := settings.Open(cfg.SettingsDB)
	if err != nil {
		logger.Errorf("Failed to open settings store: %v", err)
		panic(err)
	}
	defer prefs.Close()
	logger.Infof("Opened settings store at %s", cfg.SettingsDB)

	responses, err := cache.New[catalog.Result](cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		panic(err)
	}
	players, err := cache.New[player.Embed](cfg.CacheSize, cfg.PlayerCacheTTL)
	if err != nil {
		panic(err)
	}
	logger.Infof("Response cache: %d entries, ttl %s; player cache ttl %s", cfg.CacheSize, cfg.CacheTTL, cfg.PlayerCacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	go responses.Sweep(ctx, cfg.CleanupEvery)
	go players.Sweep(ctx, cfg.CleanupEvery)
	defer func() {
		cancel()
		responses.Clear()
		players.Clear()
		logger.Infof("Caches cleared on shutdown")
	}()

	client := catalog.NewClient(responses, cfg.CatalogBase, cfg.CatalogToken)
	enricher := metadata.NewEnricher(client, responses, metadata.Config{
		ResolverURL:   cfg.ResolverURL,
		ResolverToken: cfg.ResolverToken,
		TMDBBase:      cfg.TMDBBase,
		TMDBKey:       cfg.TMDBKey,
		ImageBase:     cfg.TMDBImageBase,
		ImageBaseHQ:   cfg.TMDBImageBaseHQ,
		Language:      cfg.TMDBLanguage,
	})
	prober := player.NewProber(cfg.PlayerBase, players, player.Options{Delay: cfg.PlayerRequestWait})
	logger.Infof("Initialized catalog client, enricher and player prober")

	s := server.NewMCPServer(
		"Catalog MCP",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("catalog-list",
		mcp.WithDescription(multiline(
			"Lists movies and series from the catalog, 12 per page by default",
			"\nUsage notes:",
			"- All filters are optional; without filters the newest titles are listed",
			"- Results include the catalog id and kinopoisk_id needed by the other tools",
			"- Responses are cached for a few minutes",
		)),
		mcp.WithString("title", mcp.Description("Title to search for")),
		mcp.WithString("kinopoisk_id", mcp.Description("Exact Kinopoisk ID")),
		mcp.WithString("imdb_id", mcp.Description("Exact IMDb ID, e.g. tt0133093")),
		mcp.WithString("year", mcp.Description("Release year")),
		mcp.WithString("type", mcp.Description("Catalog type: film, series, cartoon, cartoon-serials, show, anime, anime-serials")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.Description("Page size (1-100)")),
	), tools.CatalogListHandler(client))

	s.AddTool(mcp.NewTool("catalog-details",
		mcp.WithDescription(multiline(
			"Returns full information for one title",
			"\nUsage notes:",
			"- Provide either the catalog id or the kinopoisk_id",
			"- When the useTmdbDescriptions setting is on, the TMDB description is preferred",
		)),
		mcp.WithString("id", mcp.Description("Catalog id")),
		mcp.WithString("kinopoisk_id", mcp.Description("Kinopoisk ID")),
	), tools.CatalogDetailsHandler(client, enricher, prefs))

	s.AddTool(mcp.NewTool("tmdb-poster",
		mcp.WithDescription("Returns the TMDB poster URL for a title; honours the highQualityPosters setting"),
		mcp.WithString("kinopoisk_id", mcp.Required(), mcp.Description("Kinopoisk ID")),
		mcp.WithString("media_type", mcp.Enum("movie", "tv"), mcp.Description("TMDB media type, movie by default")),
	), tools.PosterHandler(enricher, prefs))

	s.AddTool(mcp.NewTool("tmdb-description",
		mcp.WithDescription("Returns the TMDB description for a title"),
		mcp.WithString("kinopoisk_id", mcp.Required(), mcp.Description("Kinopoisk ID")),
		mcp.WithString("media_type", mcp.Enum("movie", "tv"), mcp.Description("TMDB media type, movie by default")),
	), tools.DescriptionHandler(enricher))

	s.AddTool(mcp.NewTool("player-embed",
		mcp.WithDescription(multiline(
			"Returns the embeddable player URL for a title",
			"\nUsage notes:",
			"- Set probe to fetch the player page and list the frames it embeds",
		)),
		mcp.WithString("kinopoisk_id", mcp.Required(), mcp.Description("Kinopoisk ID")),
		mcp.WithBoolean("probe", mcp.Description("Fetch the player page")),
	), tools.PlayerEmbedHandler(prober))

	s.AddTool(mcp.NewTool("settings-get",
		mcp.WithDescription("Shows the persisted user preferences"),
	), tools.SettingsGetHandler(prefs))

	s.AddTool(mcp.NewTool("settings-set",
		mcp.WithDescription("Changes one persisted user preference"),
		mcp.WithString("name", mcp.Required(), mcp.Enum(settings.Names()...), mcp.Description("Setting name")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("New value")),
	), tools.SettingsSetHandler(prefs, prober))

	s.AddTool(mcp.NewTool("cache-clear",
		mcp.WithDescription("Drops every cached catalog, TMDB and player response"),
	), tools.CacheClearHandler(responses, players))

	s.AddTool(mcp.NewTool("cache-stats",
		mcp.WithDescription("Reports cache size and hit/miss/eviction/expiration counters"),
	), tools.CacheStatsHandler(map[string]tools.StatsSource{
		"responses": responses,
		"players":   players,
	}))
	logger.Infof("Registered tools")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
