package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Setting names as persisted in the store.
const (
	BlockAds            = "blockAds"
	AutoStart           = "autoStart"
	HighQualityPosters  = "highQualityPosters"
	UseTmdbDescriptions = "useTmdbDescriptions"
)

// Settings is the full set of user preferences.
type Settings struct {
	BlockAds            bool `json:"blockAds"`
	AutoStart           bool `json:"autoStart"`
	HighQualityPosters  bool `json:"highQualityPosters"`
	UseTmdbDescriptions bool `json:"useTmdbDescriptions"`
}

var defaults = map[string]bool{
	BlockAds:            true,
	AutoStart:           false,
	HighQualityPosters:  false,
	UseTmdbDescriptions: true,
}

// Names returns every known setting name in a stable order.
func Names() []string {
	return []string{BlockAds, AutoStart, HighQualityPosters, UseTmdbDescriptions}
}

var ErrUnknownSetting = errors.New("settings: unknown setting")

var bucketName = []byte("settings")

// Store persists preferences in a Bolt database.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex
}

// Open initializes or opens a Store at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("settings: create dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("settings: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns all preferences, with defaults for anything never set.
func (s *Store) Get() (Settings, error) {
	vals := make(map[string]bool, len(defaults))
	for k, v := range defaults {
		vals[k] = v
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		for name := range defaults {
			raw := b.Get([]byte(name))
			if raw == nil {
				continue
			}
			var v bool
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("settings: decode %s: %w", name, err)
			}
			vals[name] = v
		}
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		BlockAds:            vals[BlockAds],
		AutoStart:           vals[AutoStart],
		HighQualityPosters:  vals[HighQualityPosters],
		UseTmdbDescriptions: vals[UseTmdbDescriptions],
	}, nil
}

// Set persists a single named preference.
func (s *Store) Set(name string, enabled bool) error {
	if _, ok := defaults[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	raw, err := json.Marshal(enabled)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(name), raw)
	})
}
