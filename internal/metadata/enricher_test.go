package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/catalog"
)

type upstream struct {
	srv          *httptest.Server
	resolverHits atomic.Int32
	tmdbHits     atomic.Int32
	resolver     string
	tmdb         string
}

func newUpstream(t *testing.T, resolver, tmdb string) *upstream {
	t.Helper()
	u := &upstream{resolver: resolver, tmdb: tmdb}
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve/", func(w http.ResponseWriter, r *http.Request) {
		u.resolverHits.Add(1)
		if r.URL.Query().Get("kp") == "" || r.URL.Query().Get("token") != "rt" {
			t.Errorf("resolver query=%v", r.URL.Query())
		}
		_, _ = w.Write([]byte(u.resolver))
	})
	mux.HandleFunc("/3/", func(w http.ResponseWriter, r *http.Request) {
		u.tmdbHits.Add(1)
		if r.URL.Query().Get("api_key") != "key" || r.URL.Query().Get("language") != "ru-RU" {
			t.Errorf("tmdb query=%v", r.URL.Query())
		}
		if r.URL.Path != "/3/movie/603" && r.URL.Path != "/3/tv/603" {
			t.Errorf("tmdb path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(u.tmdb))
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func newTestEnricher(t *testing.T, u *upstream) (*Enricher, *cache.Cache[catalog.Result]) {
	t.Helper()
	memo, err := cache.New[catalog.Result](100, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	client := catalog.NewClient(memo, u.srv.URL, "")
	return NewEnricher(client, memo, Config{
		ResolverURL:   u.srv.URL + "/resolve/",
		ResolverToken: "rt",
		TMDBBase:      u.srv.URL + "/3/",
		TMDBKey:       "key",
		ImageBase:     "https://img.test/w500",
		ImageBaseHQ:   "https://img.test/original",
		Language:      "ru-RU",
	}), memo
}

func TestPosterIsMemoized(t *testing.T) {
	u := newUpstream(t, `{"status":"success","data":{"id_tmdb":603}}`, `{"poster_path":"/p.jpg","overview":" Neo "}`)
	e, _ := newTestEnricher(t, u)

	for i := 0; i < 3; i++ {
		r := e.Poster(context.Background(), "301", "", false)
		var p Poster
		if err := r.Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.PosterURL != "https://img.test/w500/p.jpg" {
			t.Fatalf("poster=%q", p.PosterURL)
		}
	}
	if u.resolverHits.Load() != 1 || u.tmdbHits.Load() != 1 {
		t.Fatalf("resolver=%d tmdb=%d", u.resolverHits.Load(), u.tmdbHits.Load())
	}

	hq := e.Poster(context.Background(), "301", "movie", true)
	var p Poster
	if err := hq.Decode(&p); err != nil || p.PosterURL != "https://img.test/original/p.jpg" {
		t.Fatalf("hq=%+v err=%v", p, err)
	}
	// The TMDB id is reused; only the details document is fetched again.
	if u.resolverHits.Load() != 1 || u.tmdbHits.Load() != 2 {
		t.Fatalf("resolver=%d tmdb=%d", u.resolverHits.Load(), u.tmdbHits.Load())
	}
}

func TestDescription(t *testing.T) {
	u := newUpstream(t, `{"status":"success","data":{"id_tmdb":"603"}}`, `{"overview":"  A hacker learns the truth.  "}`)
	e, _ := newTestEnricher(t, u)

	var d Description
	if err := e.Description(context.Background(), "301", "tv").Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.Description != "A hacker learns the truth." || d.Source != "tmdb" {
		t.Fatalf("d=%+v", d)
	}
}

func TestMissingFieldsAreNotCached(t *testing.T) {
	u := newUpstream(t, `{"status":"success","data":{"id_tmdb":603}}`, `{"overview":"   "}`)
	e, _ := newTestEnricher(t, u)

	for i := 0; i < 2; i++ {
		r := e.Description(context.Background(), "301", "movie")
		if r.Success || r.Error != "description not found in TMDB" {
			t.Fatalf("r=%+v", r)
		}
	}
	if u.tmdbHits.Load() != 2 {
		t.Fatalf("tmdb hits=%d", u.tmdbHits.Load())
	}
}

func TestTMDBIDNotFound(t *testing.T) {
	u := newUpstream(t, `{"status":"error","data":null}`, `{}`)
	e, _ := newTestEnricher(t, u)

	r := e.Poster(context.Background(), "999", "movie", false)
	if r.Success || r.Error != "TMDB ID not found" {
		t.Fatalf("r=%+v", r)
	}
	if u.tmdbHits.Load() != 0 {
		t.Fatalf("tmdb should not be called")
	}
}

func TestTMDBIDParseFailure(t *testing.T) {
	u := newUpstream(t, `["unexpected"]`, `{}`)
	e, _ := newTestEnricher(t, u)

	r := e.TMDBID(context.Background(), "1")
	if r.Success || r.Error != "Failed to parse TMDB API response" {
		t.Fatalf("r=%+v", r)
	}
}

func TestInputValidation(t *testing.T) {
	u := newUpstream(t, `{}`, `{}`)
	e, _ := newTestEnricher(t, u)

	if r := e.TMDBID(context.Background(), "  "); r.Success || r.Error != ErrEmptyID.Error() {
		t.Fatalf("empty id: %+v", r)
	}
	if r := e.Poster(context.Background(), "1", "anime", false); r.Success {
		t.Fatalf("bad media type accepted: %+v", r)
	}
	if _, err := NormalizeMediaType("podcast"); !errors.Is(err, ErrInvalidMediaType) {
		t.Fatalf("err=%v", err)
	}
	if mt, _ := NormalizeMediaType(" TV "); mt != "tv" {
		t.Fatalf("mt=%q", mt)
	}
}

func TestFalsyTMDBIDIsNotFound(t *testing.T) {
	for _, body := range []string{
		`{"status":"success","data":{"id_tmdb":0}}`,
		`{"status":"success","data":{"id_tmdb":false}}`,
		`{"status":"success","data":{"id_tmdb":""}}`,
		`{"status":"success","data":{"id_tmdb":null}}`,
	} {
		u := newUpstream(t, body, `{}`)
		e, memo := newTestEnricher(t, u)

		if r := e.TMDBID(context.Background(), "301"); r.Success || r.Error != "TMDB ID not found" {
			t.Fatalf("%s: r=%+v", body, r)
		}
		if memo.Len() != 0 {
			t.Fatalf("%s: failure memoized", body)
		}
	}
}

func TestResolverResponseTakesOneSlot(t *testing.T) {
	u := newUpstream(t, `{"status":"success","data":{"id_tmdb":603}}`, `{}`)
	e, memo := newTestEnricher(t, u)

	if r := e.TMDBID(context.Background(), "301"); !r.Success {
		t.Fatalf("r=%+v", r)
	}
	if memo.Len() != 1 {
		t.Fatalf("entries=%d", memo.Len())
	}
	if _, ok := memo.Get("tmdb_id_301"); !ok {
		t.Fatalf("tmdb id not memoized")
	}
}
