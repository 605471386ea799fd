// Package settings reads and writes the user's filter settings: the blocked
// keyword list and the article-body toggle. Settings live in named storage
// areas of a single YAML or JSON file, so several profiles can share it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"
)

// DefaultArea is the storage area used when none is configured.
const DefaultArea = "sync"

// Areas lists the storage areas a Store may use.
var Areas = []string{"sync", "local", "managed"}

// ErrUnknownArea is returned for an area outside Areas.
var ErrUnknownArea = errors.New("unknown storage area")

const (
	keyBlockedKeywords = "blockedKeywords"
	keyFilterBody      = "filterArticleContent"
)

// Settings is the user configuration of one area.
type Settings struct {
	Keywords   []string `yaml:"blockedKeywords" json:"blockedKeywords"`
	FilterBody bool     `yaml:"filterArticleContent" json:"filterArticleContent"`
}

// Equal reports whether s and o hold the same keywords in the same order and
// the same body toggle.
func (s Settings) Equal(o Settings) bool {
	return s.FilterBody == o.FilterBody && slices.Equal(s.Keywords, o.Keywords)
}

// Store is a file-backed settings area.
type Store struct {
	path string
	area string
}

// NewStore returns a store for area of the file at path. An empty area is
// DefaultArea.
func NewStore(path, area string) (*Store, error) {
	if area == "" {
		area = DefaultArea
	}
	if !slices.Contains(Areas, area) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("settings path is empty")
	}
	return &Store{path: filepath.Clean(path), area: area}, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Area returns the storage area name.
func (s *Store) Area() string { return s.area }

// Load returns the settings of the store's area. A missing file or area
// yields empty settings.
func (s *Store) Load() (Settings, error) {
	areas, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	return decodeArea(areas[s.area])
}

// LoadOrEmpty is Load for startup: a read failure is logged and degrades to
// empty settings, which hide nothing.
func (s *Store) LoadOrEmpty() Settings {
	st, err := s.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("settings unreadable; using empty settings")
		return Settings{}
	}
	return st
}

// Save replaces the store's area in the file, keeping every other area. The
// file is written to a temporary sibling and renamed into place.
func (s *Store) Save(st Settings) error {
	areas, err := s.read()
	if err != nil {
		return err
	}
	if areas == nil {
		areas = map[string]map[string]any{}
	}
	cur := areas[s.area]
	if cur == nil {
		cur = map[string]any{}
	}
	kws := st.Keywords
	if kws == nil {
		kws = []string{}
	}
	cur[keyBlockedKeywords] = kws
	cur[keyFilterBody] = st.FilterBody
	areas[s.area] = cur

	b, err := s.encode(areas)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Update loads the area, applies fn and saves the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	st, err := s.Load()
	if err != nil {
		return Settings{}, err
	}
	fn(&st)
	if err := s.Save(st); err != nil {
		return Settings{}, err
	}
	return st, nil
}

func (s *Store) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}

func (s *Store) read() (map[string]map[string]any, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var areas map[string]map[string]any
	if s.isJSON() {
		if err := json.Unmarshal(b, &areas); err != nil {
			return nil, fmt.Errorf("parse settings json: %w", err)
		}
		return areas, nil
	}
	if err := yaml.Unmarshal(b, &areas); err != nil {
		return nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	return areas, nil
}

func (s *Store) encode(areas map[string]map[string]any) ([]byte, error) {
	if s.isJSON() {
		b, err := json.MarshalIndent(areas, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode settings json: %w", err)
		}
		return append(b, '\n'), nil
	}
	b, err := yaml.Marshal(areas)
	if err != nil {
		return nil, fmt.Errorf("encode settings yaml: %w", err)
	}
	return b, nil
}

// decodeArea converts a loosely typed area into Settings. Values of the
// wrong type are ignored rather than failing the whole area.
func decodeArea(raw map[string]any) (Settings, error) {
	var st Settings
	if raw == nil {
		return st, nil
	}
	if v, ok := raw[keyBlockedKeywords].([]any); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				st.Keywords = append(st.Keywords, s)
			}
		}
	}
	if v, ok := raw[keyFilterBody].(bool); ok {
		st.FilterBody = v
	}
	return st, nil
}
