package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/catalog-mcp/internal/metadata"
)

// PosterHandler returns the handler for the "tmdb-poster" tool.
func PosterHandler(e Enricher, prefs Preferences) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kp, err := requireID(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var p metadata.Poster
		r := e.Poster(ctx, kp, req.GetString("media_type", "movie"), highQualityPosters(prefs))
		if err := r.Decode(&p); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(p.PosterURL), nil
	}
}

// DescriptionHandler returns the handler for the "tmdb-description" tool.
func DescriptionHandler(e Enricher) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kp, err := requireID(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var d metadata.Description
		if err := e.Description(ctx, kp, req.GetString("media_type", "movie")).Decode(&d); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(d.Description), nil
	}
}
