package settings

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestDefaults(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "settings.bbolt"))
	defer s.Close()

	got, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{BlockAds: true, UseTmdbDescriptions: true}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.bbolt")
	s := openTestStore(t, path)

	updates := map[string]bool{
		BlockAds:            false,
		AutoStart:           true,
		HighQualityPosters:  true,
		UseTmdbDescriptions: false,
	}
	for name, enabled := range updates {
		if err := s.Set(name, enabled); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s = openTestStore(t, path)
	defer s.Close()
	got, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{BlockAds: false, AutoStart: true, HighQualityPosters: true, UseTmdbDescriptions: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestSetUnknownName(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "settings.bbolt"))
	defer s.Close()

	if err := s.Set("darkMode", true); !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("got %v", err)
	}
}

func TestNamesCoverDefaults(t *testing.T) {
	names := Names()
	if len(names) != len(defaults) {
		t.Fatalf("names=%v", names)
	}
	for _, n := range names {
		if _, ok := defaults[n]; !ok {
			t.Fatalf("name %q has no default", n)
		}
	}
}
