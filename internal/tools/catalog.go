package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/catalog-mcp/internal/catalog"
	"github.com/leonardcser/catalog-mcp/internal/logger"
	"github.com/leonardcser/catalog-mcp/internal/metadata"
	"github.com/leonardcser/catalog-mcp/internal/settings"
)

// Handler is the MCP tool handler signature.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Catalog is the catalog API surface used by the tools.
type Catalog interface {
	MovieList(ctx context.Context, params url.Values) catalog.Result
	MovieDetails(ctx context.Context, params url.Values) catalog.Result
}

// Enricher provides TMDB posters and descriptions.
type Enricher interface {
	Poster(ctx context.Context, kinopoiskID, mediaType string, highQuality bool) catalog.Result
	Description(ctx context.Context, kinopoiskID, mediaType string) catalog.Result
}

// Preferences reads and writes user settings.
type Preferences interface {
	Get() (settings.Settings, error)
	Set(name string, enabled bool) error
}

// listFilters are the optional string arguments forwarded to /list.
var listFilters = []string{"title", "kinopoisk_id", "imdb_id", "year", "type"}

// CatalogListHandler returns the handler for the "catalog-list" tool.
func CatalogListHandler(c Catalog) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		params := url.Values{}
		for _, name := range listFilters {
			if v := strings.TrimSpace(req.GetString(name, "")); v != "" {
				params.Set(name, v)
			}
		}
		page := req.GetInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := req.GetInt("limit", catalog.DefaultLimit)
		if limit < 1 || limit > 100 {
			limit = catalog.DefaultLimit
		}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(limit))

		r := c.MovieList(ctx, params)
		list, err := catalog.DecodeList(r)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatMovieList(list, page)), nil
	}
}

// CatalogDetailsHandler returns the handler for the "catalog-details" tool.
// When TMDB descriptions are enabled and available they replace the
// catalog description.
func CatalogDetailsHandler(c Catalog, e Enricher, prefs Preferences) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		params := url.Values{}
		if id := strings.TrimSpace(req.GetString("id", "")); id != "" {
			params.Set("id", id)
		}
		if kp := strings.TrimSpace(req.GetString("kinopoisk_id", "")); kp != "" {
			params.Set("kinopoisk_id", kp)
		}
		if len(params) == 0 {
			return mcp.NewToolResultError("either id or kinopoisk_id is required"), nil
		}

		movie, err := catalog.DecodeDetails(c.MovieDetails(ctx, params))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		desc := movie.Description.String()
		source := "catalog"
		if movie.KinopoiskID != "" && useTmdbDescriptions(prefs) {
			var d metadata.Description
			r := e.Description(ctx, movie.KinopoiskID.String(), movie.MediaType())
			if err := r.Decode(&d); err == nil && d.Description != "" {
				desc, source = d.Description, "tmdb"
			} else {
				logger.Debugf("tmdb description for %s unavailable: %s", movie.KinopoiskID, r.Error)
			}
		}
		return mcp.NewToolResultText(formatMovie(movie, desc, source)), nil
	}
}

func useTmdbDescriptions(prefs Preferences) bool {
	s, err := prefs.Get()
	if err != nil {
		logger.Warnf("reading settings: %v", err)
		return true
	}
	return s.UseTmdbDescriptions
}

func highQualityPosters(prefs Preferences) bool {
	s, err := prefs.Get()
	if err != nil {
		logger.Warnf("reading settings: %v", err)
		return false
	}
	return s.HighQualityPosters
}

func requireID(req mcp.CallToolRequest) (string, error) {
	id, err := req.RequireString("kinopoisk_id")
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("kinopoisk_id must not be empty")
	}
	return id, nil
}
