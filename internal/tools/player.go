package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/catalog-mcp/internal/player"
)

// Players resolves and probes embedded player pages.
type Players interface {
	Resolve(kinopoiskID string) (*player.Embed, error)
	Probe(ctx context.Context, kinopoiskID string) (*player.Embed, error)
	Clear()
}

// PlayerEmbedHandler returns the handler for the "player-embed" tool.
func PlayerEmbedHandler(p Players) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kp, err := requireID(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var e *player.Embed
		if req.GetBool("probe", false) {
			e, err = p.Probe(ctx, kp)
		} else {
			e, err = p.Resolve(kp)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatEmbed(e)), nil
	}
}

func formatEmbed(e *player.Embed) string {
	var sb strings.Builder
	sb.WriteString("Player: ")
	sb.WriteString(e.URL)
	if !e.Probed {
		return sb.String()
	}
	if e.FinalURL != "" && e.FinalURL != e.URL {
		sb.WriteString("\nRedirected to: ")
		sb.WriteString(e.FinalURL)
	}
	if e.Title != "" {
		sb.WriteString("\nTitle: ")
		sb.WriteString(e.Title)
	}
	if len(e.Frames) == 0 {
		sb.WriteString("\nNo embedded frames found.")
		return sb.String()
	}
	sb.WriteString("\n\n## Frames\n")
	for _, f := range e.Frames {
		sb.WriteString("- ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
