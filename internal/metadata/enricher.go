package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/catalog"
)

const ResolverTimeout = 5 * time.Second

var (
	ErrEmptyID          = errors.New("kinopoisk id is required")
	ErrInvalidMediaType = errors.New("media type must be movie or tv")
)

// Requester is the subset of catalog.Client the enricher needs.
type Requester interface {
	Request(ctx context.Context, endpoint string, params url.Values, opts ...catalog.RequestOption) catalog.Result
}

// Config points the enricher at the ID resolver and TMDB.
type Config struct {
	ResolverURL   string
	ResolverToken string
	TMDBBase      string
	TMDBKey       string
	ImageBase     string
	ImageBaseHQ   string
	Language      string
}

// Enricher resolves Kinopoisk IDs to TMDB IDs and fetches posters and
// descriptions. Final results are memoized; failures are not.
type Enricher struct {
	req  Requester
	memo cache.KV[catalog.Result]
	cfg  Config
}

func NewEnricher(req Requester, memo cache.KV[catalog.Result], cfg Config) *Enricher {
	cfg.TMDBBase = strings.TrimRight(cfg.TMDBBase, "/")
	if cfg.ImageBaseHQ == "" {
		cfg.ImageBaseHQ = cfg.ImageBase
	}
	return &Enricher{req: req, memo: memo, cfg: cfg}
}

// Poster is the payload of a successful Poster result.
type Poster struct {
	PosterURL string `json:"posterUrl"`
}

// Description is the payload of a successful Description result.
type Description struct {
	Description string `json:"description"`
	Source      string `json:"source"`
}

// TMDBID is the payload of a successful TMDBID result.
type TMDBID struct {
	TMDBID string `json:"tmdbId"`
}

// TMDBID resolves a Kinopoisk ID into a TMDB ID.
func (e *Enricher) TMDBID(ctx context.Context, kinopoiskID string) catalog.Result {
	kinopoiskID = strings.TrimSpace(kinopoiskID)
	if kinopoiskID == "" {
		return catalog.Fail(ErrEmptyID.Error(), "")
	}
	key := "tmdb_id_" + kinopoiskID
	if r, ok := e.memo.Get(key); ok {
		return r
	}

	q := url.Values{"kp": {kinopoiskID}}
	if e.cfg.ResolverToken != "" {
		q.Set("token", e.cfg.ResolverToken)
	}
	r := e.req.Request(ctx, e.cfg.ResolverURL, q, catalog.WithTimeout(ResolverTimeout), catalog.WithoutCache())
	if !r.Success {
		return r
	}

	var body struct {
		Status string `json:"status"`
		Data   *struct {
			IDTMDB catalog.Text `json:"id_tmdb"`
		} `json:"data"`
	}
	if err := json.Unmarshal(r.Data, &body); err != nil {
		return catalog.Fail("Failed to parse TMDB API response", "")
	}
	if body.Status != "success" || body.Data == nil || !validTMDBID(body.Data.IDTMDB) {
		return catalog.Fail("TMDB ID not found", "")
	}
	out := catalog.OK(TMDBID{TMDBID: body.Data.IDTMDB.String()})
	e.memo.Set(key, out)
	return out
}

// validTMDBID rejects the falsy values the resolver sends for unknown titles.
func validTMDBID(id catalog.Text) bool {
	switch strings.TrimSpace(id.String()) {
	case "", "0", "false":
		return false
	}
	return true
}

// Poster returns the TMDB poster URL for a title.
func (e *Enricher) Poster(ctx context.Context, kinopoiskID, mediaType string, highQuality bool) catalog.Result {
	key := "poster"
	base := e.cfg.ImageBase
	if highQuality {
		key = "poster_hq"
		base = e.cfg.ImageBaseHQ
	}
	return e.lookup(ctx, key, kinopoiskID, mediaType, func(d tmdbDetails) (any, bool) {
		if d.PosterPath == "" {
			return nil, false
		}
		return Poster{PosterURL: strings.TrimRight(base, "/") + d.PosterPath}, true
	}, "poster")
}

// Description returns the TMDB overview for a title.
func (e *Enricher) Description(ctx context.Context, kinopoiskID, mediaType string) catalog.Result {
	return e.lookup(ctx, "description", kinopoiskID, mediaType, func(d tmdbDetails) (any, bool) {
		desc := strings.TrimSpace(d.Overview)
		if desc == "" {
			return nil, false
		}
		return Description{Description: desc, Source: "tmdb"}, true
	}, "description")
}

type tmdbDetails struct {
	PosterPath string `json:"poster_path"`
	Overview   string `json:"overview"`
}

func (e *Enricher) lookup(ctx context.Context, kind, kinopoiskID, mediaType string, pick func(tmdbDetails) (any, bool), label string) catalog.Result {
	mediaType, err := NormalizeMediaType(mediaType)
	if err != nil {
		return catalog.Fail(err.Error(), "")
	}
	kinopoiskID = strings.TrimSpace(kinopoiskID)
	key := fmt.Sprintf("tmdb_%s_%s_%s", kind, kinopoiskID, mediaType)
	if r, ok := e.memo.Get(key); ok {
		return r
	}

	idRes := e.TMDBID(ctx, kinopoiskID)
	if !idRes.Success {
		return idRes
	}
	var id TMDBID
	if err := idRes.Decode(&id); err != nil {
		return catalog.Fail(err.Error(), "")
	}

	q := url.Values{}
	if e.cfg.TMDBKey != "" {
		q.Set("api_key", e.cfg.TMDBKey)
	}
	if e.cfg.Language != "" {
		q.Set("language", e.cfg.Language)
	}
	endpoint := fmt.Sprintf("%s/%s/%s", e.cfg.TMDBBase, mediaType, url.PathEscape(id.TMDBID))
	// The raw TMDB document is not memoized; only the picked field is.
	r := e.req.Request(ctx, endpoint, q, catalog.WithoutCache())
	if !r.Success {
		return r
	}
	var d tmdbDetails
	if err := json.Unmarshal(r.Data, &d); err != nil {
		return catalog.Fail("Failed to parse TMDB API response", "")
	}
	v, ok := pick(d)
	if !ok {
		return catalog.Fail(label+" not found in TMDB", "")
	}
	out := catalog.OK(v)
	e.memo.Set(key, out)
	return out
}

// NormalizeMediaType defaults an empty media type to "movie" and rejects
// anything TMDB would not understand.
func NormalizeMediaType(mediaType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "", "movie":
		return "movie", nil
	case "tv":
		return "tv", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
}
