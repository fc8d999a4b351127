package catalog

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMovieDecodesLooseScalars(t *testing.T) {
	raw := `{
		"id": 42,
		"kinopoisk_id": "301",
		"name": "",
		"name_eng": "The Matrix",
		"type": "film",
		"year": 1999,
		"quality": 4,
		"kinopoisk": "8.50",
		"imdb": null,
		"poster": "null",
		"genre": {"1": "sci-fi", "2": "action", "3": "null"},
		"country": ["USA"],
		"director": "Lana Wachowski"
	}`
	var m Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if m.ID != "42" || m.KinopoiskID != "301" || m.Year != "1999" {
		t.Fatalf("scalars: %+v", m)
	}
	if m.Title() != "The Matrix" {
		t.Errorf("title=%q", m.Title())
	}
	if m.Kinopoisk.Rating() != "8.5" || m.IMDb.Rating() != "" {
		t.Errorf("ratings %q %q", m.Kinopoisk.Rating(), m.IMDb.Rating())
	}
	if m.Poster != "" {
		t.Errorf("poster=%q", m.Poster)
	}
	if m.QualityLabel() != "FHD" || m.TypeLabel() != "Film" || m.MediaType() != "movie" {
		t.Errorf("labels %q %q %q", m.QualityLabel(), m.TypeLabel(), m.MediaType())
	}
	if !reflect.DeepEqual(m.Genre, Names{"sci-fi", "action"}) {
		t.Errorf("genre=%v", m.Genre)
	}
	if m.Country.String() != "USA" || m.Director.String() != "Lana Wachowski" || m.Actors != nil {
		t.Errorf("names %v %v %v", m.Country, m.Director, m.Actors)
	}
}

func TestSeriesMapToTV(t *testing.T) {
	for _, typ := range []Text{"series", "anime-serials", "cartoon-serials", "show"} {
		if got := (Movie{Type: typ}).MediaType(); got != "tv" {
			t.Errorf("%s -> %s", typ, got)
		}
	}
}

func TestDecodeFailedResult(t *testing.T) {
	_, err := DecodeDetails(Fail("request failed with status code 404", CodeBadRequest))
	if err == nil || err.Error() != "request failed with status code 404 (ERR_BAD_REQUEST)" {
		t.Fatalf("err=%v", err)
	}
}

func TestOKRoundTrip(t *testing.T) {
	r := OK(map[string]string{"tmdbId": "603"})
	var out struct {
		TMDBID string `json:"tmdbId"`
	}
	if err := r.Decode(&out); err != nil || out.TMDBID != "603" {
		t.Fatalf("out=%+v err=%v", out, err)
	}
}
