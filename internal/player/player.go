package player

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/logger"
	"github.com/leonardcser/catalog-mcp/internal/web"
)

const RequestTimeout = 15 * time.Second

var ErrEmptyID = errors.New("kinopoisk id is required")

// Embed describes the third-party player page for one title.
type Embed struct {
	URL      string   `json:"url"`
	FinalURL string   `json:"finalUrl,omitempty"`
	Title    string   `json:"title,omitempty"`
	Frames   []string `json:"frames,omitempty"`
	Probed   bool     `json:"probed"`
}

// EmbedURL builds the player URL for a Kinopoisk ID. Protocol-relative
// bases are upgraded to https.
func EmbedURL(base, kinopoiskID string) (string, error) {
	kinopoiskID = strings.TrimSpace(kinopoiskID)
	if kinopoiskID == "" {
		return "", ErrEmptyID
	}
	if strings.HasPrefix(base, "//") {
		base = "https:" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("player base must be an http(s) URL")
	}
	q := u.Query()
	q.Set("kp_id", kinopoiskID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Options tunes the prober's collector.
type Options struct {
	// Delay between requests to the same host.
	Delay time.Duration
	// Timeout per request; RequestTimeout when zero.
	Timeout time.Duration
}

// Prober fetches player pages and reports the frames they embed.
type Prober struct {
	c    *colly.Collector
	base string
	memo *cache.Cache[Embed]
}

func NewProber(base string, memo *cache.Cache[Embed], opts Options) *Prober {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
	)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       opts.Delay,
	})
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	c.SetRequestTimeout(timeout)
	return &Prober{c: c, base: base, memo: memo}
}

// Resolve returns the embed URL without touching the network.
func (p *Prober) Resolve(kinopoiskID string) (*Embed, error) {
	u, err := EmbedURL(p.base, kinopoiskID)
	if err != nil {
		return nil, err
	}
	return &Embed{URL: u}, nil
}

// Probe fetches the player page and extracts its title and iframe sources.
// Successful probes are memoized.
func (p *Prober) Probe(ctx context.Context, kinopoiskID string) (*Embed, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	embed, err := p.Resolve(kinopoiskID)
	if err != nil {
		return nil, err
	}
	if cached, ok := p.memo.Get(embed.URL); ok {
		cached.Frames = slices.Clone(cached.Frames)
		return &cached, nil
	}

	// Clone per call so callbacks from concurrent probes never mix.
	c := p.c.Clone()
	c.Context = ctx

	var body []byte
	var contentType string
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", web.NextUserAgent())
		r.Headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8")
	})
	c.OnResponse(func(r *colly.Response) {
		embed.FinalURL = r.Request.URL.String()
		body = append([]byte(nil), r.Body...)
		contentType = r.Headers.Get("Content-Type")
	})

	if err := c.Visit(embed.URL); err != nil {
		logger.Warnf("player probe %s failed: %v", embed.URL, err)
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(body) == 0 {
		return nil, errors.New("empty player response")
	}
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, errors.New("player did not return an HTML page")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	embed.Title = strings.Join(strings.Fields(doc.Find("head > title").First().Text()), " ")
	embed.Frames = frameSources(doc, embed.FinalURL)
	embed.Probed = true

	stored := *embed
	stored.Frames = slices.Clone(embed.Frames)
	p.memo.Set(embed.URL, stored)
	return embed, nil
}

// Clear drops every memoized probe.
func (p *Prober) Clear() { p.memo.Clear() }

// frameSources returns absolute, de-duplicated, sorted iframe sources.
func frameSources(doc *goquery.Document, pageURL string) []string {
	base, _ := url.Parse(pageURL)
	set := make(map[string]struct{})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "javascript:") || src == "about:blank" {
			return
		}
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		u, err := url.Parse(src)
		if err != nil {
			return
		}
		if !u.IsAbs() && base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""
		set[u.String()] = struct{}{}
	})
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
