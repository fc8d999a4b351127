package catalog

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Text decodes any JSON scalar (string, number, bool) into a string.
// The upstream API is inconsistent about quoting numbers; null and the
// literal string "null" both decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "null" {
			s = ""
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*t = ""
		return nil
	}
	*t = Text(b)
	return nil
}

func (t Text) String() string { return string(t) }

// Rating formats t as a one-decimal rating, or "" when it is not a number.
func (t Text) Rating() string {
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil || f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// Names decodes a list of names sent either as an array, an object of
// id→name, or a single string.
type Names []string

func (n *Names) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*n = nil
	case b[0] == '[':
		var items []Text
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*n = compact(items)
	case b[0] == '{':
		var m map[string]Text
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]Text, 0, len(keys))
		for _, k := range keys {
			items = append(items, m[k])
		}
		*n = compact(items)
	default:
		var t Text
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		*n = compact([]Text{t})
	}
	return nil
}

func (n Names) String() string { return strings.Join(n, ", ") }

func compact(items []Text) Names {
	out := make(Names, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, string(it))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Movie is one catalog title. Only the fields the server renders are decoded.
type Movie struct {
	ID          Text  `json:"id"`
	KinopoiskID Text  `json:"kinopoisk_id"`
	Name        Text  `json:"name"`
	NameEng     Text  `json:"name_eng"`
	Type        Text  `json:"type"`
	Year        Text  `json:"year"`
	Quality     Text  `json:"quality"`
	Age         Text  `json:"age"`
	Poster      Text  `json:"poster"`
	Kinopoisk   Text  `json:"kinopoisk"`
	IMDb        Text  `json:"imdb"`
	Description Text  `json:"description"`
	Time        Text  `json:"time"`
	Premier     Text  `json:"premier"`
	PremierRus  Text  `json:"premier_rus"`
	Budget      Text  `json:"budget"`
	FeesWorld   Text  `json:"fees_world"`
	FeesUSA     Text  `json:"fees_use"`
	FeesRus     Text  `json:"fees_rus"`
	Genre       Names `json:"genre"`
	Country     Names `json:"country"`
	Director    Names `json:"director"`
	Actors      Names `json:"actors"`
}

// Title returns the localized name, falling back to the English one.
func (m Movie) Title() string {
	if m.Name != "" {
		return string(m.Name)
	}
	return string(m.NameEng)
}

var typeLabels = map[string]string{
	"film":            "Film",
	"series":          "Series",
	"cartoon":         "Cartoon",
	"cartoon-serials": "Cartoon series",
	"show":            "Show",
	"anime":           "Anime",
	"anime-serials":   "Anime series",
}

// TypeLabel returns a human label for the catalog type code.
func (m Movie) TypeLabel() string {
	if l, ok := typeLabels[string(m.Type)]; ok {
		return l
	}
	return string(m.Type)
}

var qualityLabels = map[string]string{"1": "HD", "2": "TS", "3": "SD", "4": "FHD"}

// QualityLabel maps the numeric quality code to its label.
func (m Movie) QualityLabel() string {
	if m.Quality == "0" {
		return ""
	}
	if l, ok := qualityLabels[string(m.Quality)]; ok {
		return l
	}
	return string(m.Quality)
}

// MediaType maps the catalog type to the TMDB media type.
func (m Movie) MediaType() string {
	switch m.Type {
	case "series", "cartoon-serials", "anime-serials", "show":
		return "tv"
	}
	return "movie"
}

// MovieList is one page of catalog results.
type MovieList struct {
	Results []Movie `json:"results"`
	Total   Text    `json:"total"`
}

// DecodeList decodes a MovieList result.
func DecodeList(r Result) (*MovieList, error) {
	var l MovieList
	if err := r.Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeDetails decodes a MovieDetails result.
func DecodeDetails(r Result) (*Movie, error) {
	var m Movie
	if err := r.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
