package tools

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leonardcser/catalog-mcp/internal/catalog"
)

// formatMovieList renders one catalog page as a numbered list.
func formatMovieList(l *catalog.MovieList, page int) string {
	if len(l.Results) == 0 {
		return "No results."
	}
	var sb strings.Builder
	if l.Total != "" {
		sb.WriteString(fmt.Sprintf("Found %s titles (page %d)\n\n", l.Total, page))
	}
	for i, m := range l.Results {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, orDash(m.Title())))
		if m.Year != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", m.Year))
		}
		if label := m.TypeLabel(); label != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", label))
		}
		sb.WriteString("\n   id: ")
		sb.WriteString(orDash(m.ID.String()))
		if m.KinopoiskID != "" {
			sb.WriteString(" | kinopoisk_id: ")
			sb.WriteString(m.KinopoiskID.String())
		}
		if r := m.Kinopoisk.Rating(); r != "" {
			sb.WriteString(" | KP " + r)
		}
		if r := m.IMDb.Rating(); r != "" {
			sb.WriteString(" | IMDb " + r)
		}
		if m.Poster != "" {
			sb.WriteString("\n   poster: ")
			sb.WriteString(m.Poster.String())
		}
		if i < len(l.Results)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// formatMovie renders a details page as Markdown.
func formatMovie(m *catalog.Movie, description, source string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(orDash(m.Title()))
	sb.WriteString("\n\n")

	rows := [][2]string{
		{"Original title", firstNonEmpty(m.NameEng.String(), m.Name.String())},
		{"Year", m.Year.String()},
		{"Type", m.TypeLabel()},
		{"Quality", m.QualityLabel()},
		{"Age", m.Age.String()},
		{"Kinopoisk", m.Kinopoisk.Rating()},
		{"IMDb", m.IMDb.Rating()},
		{"Genre", m.Genre.String()},
		{"Country", m.Country.String()},
		{"Director", m.Director.String()},
		{"Actors", m.Actors.String()},
		{"Duration", m.Time.String()},
		{"Budget", m.Budget.String()},
		{"Fees (world)", m.FeesWorld.String()},
		{"Fees (USA)", m.FeesUSA.String()},
		{"Fees (Russia)", m.FeesRus.String()},
		{"Premiere", m.Premier.String()},
		{"Premiere (Russia)", m.PremierRus.String()},
		{"Kinopoisk ID", m.KinopoiskID.String()},
		{"Poster", m.Poster.String()},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		sb.WriteString("- **")
		sb.WriteString(r[0])
		sb.WriteString("**: ")
		sb.WriteString(r[1])
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Description")
	if source != "" {
		sb.WriteString(" (")
		sb.WriteString(source)
		sb.WriteString(")")
	}
	sb.WriteString("\n\n")
	sb.WriteString(descriptionMarkdown(description))
	return sb.String()
}

// descriptionMarkdown converts HTML descriptions to Markdown and leaves
// plain text alone.
func descriptionMarkdown(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "No description."
	}
	if !strings.ContainsAny(desc, "<&") {
		return desc
	}
	md, err := htmltomarkdown.ConvertString(desc)
	if err != nil || strings.TrimSpace(md) == "" {
		return desc
	}
	return strings.TrimSpace(md)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
